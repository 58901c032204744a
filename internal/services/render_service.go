package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/varun4-here/PaperShare/internal/models"
)

// RenderService turns a paper and its analysis into platform-specific post
// drafts. Rendering is pure text assembly with no fallible paths: empty
// fields are replaced with fixed defaults. Template selection for the
// LinkedIn fallback uses the injected rng so tests can pin it down.
type RenderService struct {
	rng *rand.Rand
}

func NewRenderService(rng *rand.Rand) *RenderService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RenderService{rng: rng}
}

var (
	baseLinkedInTags = []string{"#Research", "#Science", "#Innovation"}
	baseTwitterTags  = []string{"#Research"}
	tagCleaner       = regexp.MustCompile(`[^\w\s-]`)
)

// hashtagLine turns keywords into a space-joined tag line: punctuation
// stripped, multi-word keywords collapsed to CamelCase, tags of two or
// fewer characters dropped, first occurrence wins, total capped at limit.
func hashtagLine(base []string, keywords []string, limit int) string {
	tags := make([]string, 0, limit)
	seen := make(map[string]struct{})
	add := func(tag string) {
		if _, dup := seen[tag]; dup || len(tags) >= limit {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range base {
		add(tag)
	}
	for _, keyword := range keywords {
		tag := strings.TrimSpace(tagCleaner.ReplaceAllString(keyword, ""))
		if strings.Contains(tag, " ") {
			parts := strings.Fields(tag)
			for i, part := range parts {
				parts[i] = capitalize(part)
			}
			tag = strings.Join(parts, "")
		}
		if len([]rune(tag)) > 2 {
			add("#" + tag)
		}
	}
	return strings.Join(tags, " ")
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return strings.ToUpper(string(runes[:1])) + strings.ToLower(string(runes[1:]))
}

// truncate caps text at limit runes, marking cuts with an ellipsis. The
// result never exceeds limit runes including the marker.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func prefixRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// withDefaults copies the analysis with empty fields replaced by generic
// placeholders, so a partial analysis never breaks a renderer.
func withDefaults(paper *models.Paper, analysis *models.Analysis) models.Analysis {
	a := *analysis
	fill := func(field *string, def string) {
		if strings.TrimSpace(*field) == "" {
			*field = def
		}
	}
	fill(&a.Headline, fmt.Sprintf("🔬 Research Insights: %s...", prefixRunes(paper.Title, 30)))
	fill(&a.Hook, "An interesting new study.")
	fill(&a.KeyFinding, "Presents significant findings.")
	fill(&a.Method, "Utilizes a specific methodology.")
	fill(&a.TechnicalDetail, "Specific techniques detailed within.")
	fill(&a.Advantage, "Offers potential benefits.")
	fill(&a.Application, "Could have practical applications.")
	fill(&a.PersonalTake, "Worth looking into for those in the field.")
	fill(&a.OpenQuestion, "What are your thoughts on this approach?")
	fill(&a.PriorWork, "Builds on prior work.")
	fill(&a.Limitation, "Limitations may apply.")
	fill(&a.NoviceSummary, "This research explores an interesting topic.")
	return a
}

// LinkedInPost uses the generated draft verbatim when it looks usable (long
// enough and with a paragraph break), otherwise assembles a post from the
// structured fields using one of several prose templates.
func (r *RenderService) LinkedInPost(paper *models.Paper, analysis *models.Analysis) string {
	tagLine := hashtagLine(baseLinkedInTags, analysis.KeywordList(), 7)

	draft := strings.TrimSpace(analysis.LinkedInDraft)
	if len([]rune(draft)) > 100 && strings.Contains(draft, "\n\n") {
		return strings.TrimSpace(fmt.Sprintf("%s\n\n🔗 Read the full paper: %s\n\n%s", draft, paper.URL, tagLine))
	}

	a := withDefaults(paper, analysis)
	templates := []string{
		fmt.Sprintf(`%s

Just came across this paper and found the findings quite interesting: "%s"

📌 **What's the core idea?** %s

🔑 **Key Takeaway:** %s

🔬 **How they did it:** The research employed %s. A notable aspect is %s.

✨ **Why it matters:** This work suggests %s and could be applied to %s.

🤔 **My perspective:** %s %s

🔗 Dive deeper: %s

%s`, a.Headline, paper.Title, a.Hook, a.KeyFinding, a.Method, a.TechnicalDetail,
			a.Advantage, a.Application, a.PersonalTake, a.OpenQuestion, paper.URL, tagLine),

		fmt.Sprintf(`%s | Exploring advances in research

This paper caught my eye: "%s"

🔹 **The Gist:** %s
🔹 **Main Result:** %s
🔹 **Approach:** Leverages %s.

🚀 **Potential Impact:** This could lead to improvements in %s, potentially offering %s. It builds upon %s.

Always interesting to see how the field evolves! What limitations or extensions come to mind for you? (%s)

Full text: %s

%s`, a.Headline, paper.Title, a.Hook, a.KeyFinding, a.Method,
			a.Application, a.Advantage, a.PriorWork, a.Limitation, paper.URL, tagLine),

		fmt.Sprintf(`%s

Sharing thoughts on a recent read: "%s"

Essentially, the paper %s The authors found that %s by using %s.

What stands out is %s, which might be useful for %s.

%s

Check out the details: %s

%s`, a.Headline, paper.Title, a.Hook, a.KeyFinding, a.Method,
			a.Advantage, a.Application, a.PersonalTake, paper.URL, tagLine),
	}

	return strings.TrimSpace(templates[r.rng.Intn(len(templates))])
}

// TwitterThread renders a fixed three-tweet thread with per-field character
// budgets.
func (r *RenderService) TwitterThread(paper *models.Paper, analysis *models.Analysis) string {
	a := fillFromTemplate(paper, analysis)

	keywords := analysis.KeywordList()
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	tagLine := hashtagLine(baseTwitterTags, keywords, 4)

	tweet1 := fmt.Sprintf("%s (1/3)\n📜: \"%s\"\n🔑: %s\n%s",
		a.Headline, truncate(paper.Title, 60), truncate(a.KeyFinding, 120), tagLine)
	tweet2 := fmt.Sprintf("(2/3) How:\n🔧 Method: %s\n💡 Advantage: %s",
		truncate(a.Method, 90), truncate(a.Advantage, 90))
	tweet3 := fmt.Sprintf("(3/3) Impact:\n🎯 Apps: %s\n🤔 My Take: %s\n🔗: %s",
		truncate(a.Application, 80), truncate(a.PersonalTake, 70), paper.URL)

	return strings.TrimSpace(tweet1) + "\n\n" + strings.TrimSpace(tweet2) + "\n\n" + strings.TrimSpace(tweet3)
}

// NoviceSummary renders the plain-language what/why/how/limits explainer.
func (r *RenderService) NoviceSummary(paper *models.Paper, analysis *models.Analysis) string {
	a := fillFromTemplate(paper, analysis)

	whatNext := a.OpenQuestion
	if strings.TrimSpace(whatNext) == "" {
		whatNext = a.Limitation
	}

	return strings.TrimSpace(fmt.Sprintf(`**Easy Explanation: "%s"** 🧠➡️💡

**What's it about?** 🤔
%s
Basically: %s

**What did they find?** 🎯
The main discovery: %s

**How did they do it?** 🛠️
They used a method involving %s. The special part was %s.

**Why should I care?** ✨
This research is cool because %s. It could one day help with %s.

**What's next / Limits?** ❓
%s

**Want the details?** 🤓
Read the full paper here: %s`,
		paper.Title, a.NoviceSummary, a.Hook, a.KeyFinding, a.Method,
		a.TechnicalDetail, a.Advantage, a.Application, whatNext, paper.URL))
}

// fillFromTemplate backfills empty fields from the deterministic strategy's
// output for the same paper, mirroring how a partial analysis is completed.
func fillFromTemplate(paper *models.Paper, analysis *models.Analysis) models.Analysis {
	a := *analysis
	t := AnalyzeWithTemplate(paper)
	fill := func(field *string, def string) {
		if strings.TrimSpace(*field) == "" {
			*field = def
		}
	}
	fill(&a.Headline, t.Headline)
	fill(&a.Hook, t.Hook)
	fill(&a.KeyFinding, t.KeyFinding)
	fill(&a.Method, t.Method)
	fill(&a.TechnicalDetail, t.TechnicalDetail)
	fill(&a.Application, t.Application)
	fill(&a.PriorWork, t.PriorWork)
	fill(&a.Limitation, t.Limitation)
	fill(&a.Advantage, t.Advantage)
	fill(&a.Stats, t.Stats)
	fill(&a.PersonalTake, t.PersonalTake)
	fill(&a.OpenQuestion, t.OpenQuestion)
	fill(&a.NoviceSummary, t.NoviceSummary)
	return a
}
