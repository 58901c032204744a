package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/varun4-here/PaperShare/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
)

var (
	ErrGenerationBlocked  = errors.New("generation stopped abnormally")
	ErrIncompleteAnalysis = errors.New("generated analysis missing mandatory keys")
)

// ContentGenerator is the slice of the Gemini model the analyzer needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// NewGeminiModel configures the generative model used for paper analysis.
func NewGeminiModel(client *genai.Client, modelName string) *genai.GenerativeModel {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.6)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
	return model
}

// AnalysisService produces an Analysis for a paper, preferring Gemini and
// falling back to template substitution when the model is unavailable or
// its output is unusable. Generation failures are never surfaced to the
// caller; Analyze always returns a fully populated analysis.
type AnalysisService struct {
	generator ContentGenerator
}

func NewAnalysisService(generator ContentGenerator) *AnalysisService {
	return &AnalysisService{generator: generator}
}

// Available reports whether the generative strategy can be attempted.
func (s *AnalysisService) Available() bool {
	return s.generator != nil
}

func (s *AnalysisService) Analyze(ctx context.Context, paper *models.Paper) *models.Analysis {
	if s.Available() {
		analysis, err := s.analyzeWithAI(ctx, paper)
		if err == nil {
			return analysis
		}
		log.Warn().Err(err).Str("title", truncate(paper.Title, 50)).
			Msg("generative analysis failed, using template fallback")
	}
	return AnalyzeWithTemplate(paper)
}

const analysisPromptFormat = `Act as an expert academic researcher and skilled science communicator creating content about a research paper for LinkedIn.
Analyze the provided paper title and abstract.

**Paper Title:** %s
**Paper Abstract:** %s

**Your Task:**
Generate a JSON object containing the following keys. Base your answers *only* on the provided title and abstract. Do not add external information.

1.  "headline": A very short, engaging headline suitable for social media, starting with an emoji.
2.  "key_finding": The single most important conclusion or result. Be specific and concise.
3.  "method_summary": A brief description of the core method or approach used.
4.  "advantage_summary": A brief summary of the key advantage or improvement claimed, if stated.
5.  "application_summary": A brief mention of potential applications.
6.  "keywords": A list of 3-5 relevant technical keywords or concepts from the text, suitable for hashtags (e.g., ["Machine Learning", "Computer Vision", "NLP"]).
7.  "linkedin_draft": **Write an engaging LinkedIn post draft (around 3-5 paragraphs).**
    *   Start with the headline.
    *   Include a strong hook explaining the paper's importance.
    *   Clearly state the key finding.
    *   Briefly mention the method.
    *   Highlight the advantage and applications.
    *   Add a short concluding thought or insightful question.
    *   **Crucially, make it sound natural and engaging, not just a list of facts.**
    *   Use paragraphs (separated by double newlines \n\n).
    *   You can use bullet points (e.g., ▪️) for clarity if appropriate within the draft.
    *   **Do not include hashtags or the paper URL within this draft itself.**

**Output Format:**
Return **ONLY** the valid JSON object, starting with { and ending with }. Ensure all string values are properly escaped. Do not include markdown fences.

Example JSON Structure:
{
  "headline": "...",
  "key_finding": "...",
  "method_summary": "...",
  "advantage_summary": "...",
  "application_summary": "...",
  "keywords": ["Keyword1", "Keyword2", "Keyword3"],
  "linkedin_draft": "POST_HEADLINE\n\nHOOK_SENTENCE...\n\nKEY_FINDING_DETAILS...\n\nMETHOD_MENTION...\n\nIMPLICATIONS...\n\nCONCLUDING_THOUGHT/QUESTION..."
}
`

// generatedAnalysis is the key set requested from the model. Fields it
// leaves out are filled from the template strategy during the merge.
type generatedAnalysis struct {
	Headline           string   `json:"headline"`
	Hook               string   `json:"hook"`
	KeyFinding         string   `json:"key_finding"`
	MethodSummary      string   `json:"method_summary"`
	TechnicalDetail    string   `json:"technical_detail"`
	AdvantageSummary   string   `json:"advantage_summary"`
	ApplicationSummary string   `json:"application_summary"`
	NoviceSummary      string   `json:"novice_summary"`
	Keywords           []string `json:"keywords"`
	LinkedInDraft      string   `json:"linkedin_draft"`
}

var mandatoryAnalysisKeys = []string{"headline", "key_finding", "linkedin_draft", "keywords"}

func (s *AnalysisService) analyzeWithAI(ctx context.Context, paper *models.Paper) (*models.Analysis, error) {
	prompt := fmt.Sprintf(analysisPromptFormat, paper.Title, paper.Abstract)

	resp, err := s.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("%w: %s", ErrGenerationBlocked, finishReason(resp))
	}

	text := candidateText(resp.Candidates[0])
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &present); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %w", err)
	}
	for _, key := range mandatoryAnalysisKeys {
		if _, ok := present[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteAnalysis, key)
		}
	}

	var generated generatedAnalysis
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %w", err)
	}

	log.Info().Str("title", truncate(paper.Title, 50)).Msg("parsed generative analysis")
	return mergeWithTemplate(paper, &generated), nil
}

// mergeWithTemplate lays the generated fields over a fresh template
// analysis so every schema field ends up non-empty regardless of which keys
// the model chose to emit.
func mergeWithTemplate(paper *models.Paper, generated *generatedAnalysis) *models.Analysis {
	analysis := AnalyzeWithTemplate(paper)
	if generated.Headline != "" {
		analysis.Headline = generated.Headline
	}
	if generated.Hook != "" {
		analysis.Hook = generated.Hook
	}
	if generated.KeyFinding != "" {
		analysis.KeyFinding = generated.KeyFinding
	}
	if generated.MethodSummary != "" {
		analysis.Method = generated.MethodSummary
	}
	if generated.TechnicalDetail != "" {
		analysis.TechnicalDetail = generated.TechnicalDetail
	}
	if generated.AdvantageSummary != "" {
		analysis.Advantage = generated.AdvantageSummary
	}
	if generated.ApplicationSummary != "" {
		analysis.Application = generated.ApplicationSummary
	}
	if generated.NoviceSummary != "" {
		analysis.NoviceSummary = generated.NoviceSummary
	}
	analysis.LinkedInDraft = generated.LinkedInDraft
	if len(generated.Keywords) > 0 {
		analysis.SetKeywordList(generated.Keywords)
	}
	return analysis
}

func candidateText(candidate *genai.Candidate) string {
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			return fmt.Sprintf("prompt blocked: %v", resp.PromptFeedback.BlockReason)
		}
		return "no candidates"
	}
	return fmt.Sprintf("finish reason %v", resp.Candidates[0].FinishReason)
}

var templateStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "paper": {}, "study": {},
}

// AnalyzeWithTemplate is the deterministic fallback: a pure function of the
// paper record that always succeeds. The draft is left empty to signal that
// no generative draft is available.
func AnalyzeWithTemplate(paper *models.Paper) *models.Analysis {
	words := strings.Fields(paper.Title)
	topic := "this research"
	if len(words) > 0 {
		n := len(words)
		if n > 5 {
			n = 5
		}
		topic = strings.Join(words[:n], " ")
	}

	keyFinding := firstSentence(paper.Abstract)
	if keyFinding == "" {
		keyFinding = "Main results presented."
	}

	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range words {
		if len([]rune(word)) <= 3 {
			continue
		}
		lower := strings.ToLower(word)
		if _, stop := templateStopwords[lower]; stop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == 5 {
			break
		}
	}

	analysis := &models.Analysis{
		Headline:        "🔬 Research Snapshot: " + topic,
		Hook:            fmt.Sprintf("This paper investigates key aspects of %s.", topic),
		KeyFinding:      keyFinding,
		Method:          "Methodology detailed within.",
		TechnicalDetail: "Specific techniques used.",
		Application:     fmt.Sprintf("Potential applications in %s.", topic),
		PriorWork:       "Builds on prior work.",
		Limitation:      "Scope and limitations discussed.",
		Advantage:       "Offers potential improvements.",
		Stats:           "Results presented in paper.",
		PersonalTake:    "An interesting contribution.",
		OpenQuestion:    "Further research suggested.",
		NoviceSummary:   fmt.Sprintf("Research on %s, using specific methods to find answers.", topic),
		LinkedInDraft:   "",
	}
	analysis.SetKeywordList(keywords)
	return analysis
}

// firstSentence returns the abstract up to the first sentence-ending
// punctuation followed by whitespace, truncated to 150 runes.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	sentence := text
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && unicode.IsSpace(rune(text[i+1])) {
			sentence = text[:i+1]
			break
		}
	}
	return truncate(sentence, 150)
}
