package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/varun4-here/PaperShare/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidURL       = errors.New("invalid arXiv abstract URL")
	ErrNetwork          = errors.New("network error fetching paper")
	ErrPaperUnavailable = errors.New("paper page unavailable")
	ErrMissingTitle     = errors.New("paper title not found")
	ErrMissingAbstract  = errors.New("paper abstract not found")
)

// maxAuthors caps the author list; arXiv pages can carry hundreds of names.
const maxAuthors = 5

var absURLPattern = regexp.MustCompile(`^https?://arxiv\.org/abs/\d+\.\d+(v\d+)?$`)

// ArxivService fetches an abstract page and extracts paper metadata from it.
type ArxivService struct {
	client *http.Client
}

func NewArxivService(timeout time.Duration) *ArxivService {
	return &ArxivService{
		client: &http.Client{Timeout: timeout},
	}
}

// NormalizeURL rewrites PDF links to their abstract-page form and validates
// the result against the supported arXiv pattern. It runs before any network
// call, so malformed input never reaches the fetcher.
func NormalizeURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ErrInvalidURL
	}
	if !absURLPattern.MatchString(url) {
		if strings.Contains(url, "/pdf/") && strings.HasSuffix(url, ".pdf") {
			url = strings.TrimSuffix(strings.Replace(url, "/pdf/", "/abs/", 1), ".pdf")
			log.Info().Str("url", url).Msg("rewrote PDF URL to abstract form")
		}
		if !absURLPattern.MatchString(url) {
			return "", ErrInvalidURL
		}
	}
	return url, nil
}

// CrawlPaper retrieves the abstract page and extracts title, authors and
// abstract. Network failures, non-success statuses and missing required
// fields are reported as distinct errors.
func (s *ArxivService) CrawlPaper(ctx context.Context, url string) (*models.Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrInvalidURL
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("network error crawling arXiv page")
		return nil, ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("unexpected status crawling arXiv page")
		return nil, fmt.Errorf("%w: status %d", ErrPaperUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaperUnavailable, err)
	}

	paper, err := extractPaper(doc, url)
	if err != nil {
		return nil, err
	}
	log.Info().Str("title", truncate(paper.Title, 50)).Msg("extracted paper")
	return paper, nil
}

// extractPaper pulls metadata out of a parsed abstract page. Title and
// abstract use the structural selectors first and the citation_* meta tags
// as fallback; both are required. Authors are optional.
func extractPaper(doc *goquery.Document, url string) (*models.Paper, error) {
	title := strings.TrimSpace(strings.TrimPrefix(
		strings.TrimSpace(doc.Find("h1.title.mathjax").First().Text()), "Title:"))
	if title == "" {
		title = strings.TrimSpace(doc.Find(`meta[name="citation_title"]`).AttrOr("content", ""))
	}
	if title == "" {
		return nil, ErrMissingTitle
	}

	var authors []string
	doc.Find(".authors a").Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			authors = append(authors, name)
		}
	})
	if len(authors) == 0 {
		doc.Find(`meta[name="citation_author"]`).Each(func(_ int, sel *goquery.Selection) {
			if name := strings.TrimSpace(sel.AttrOr("content", "")); name != "" {
				authors = append(authors, name)
			}
		})
	}
	if len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}
	authorLine := "Authors not found"
	if len(authors) > 0 {
		authorLine = strings.Join(authors, ", ")
	}

	abstractBlock := doc.Find("blockquote.abstract.mathjax").First()
	abstractBlock.Find("span.descriptor").Remove()
	abstract := strings.TrimSpace(strings.TrimPrefix(
		strings.TrimSpace(abstractBlock.Text()), "Abstract:"))
	if abstract == "" {
		abstract = strings.TrimSpace(doc.Find(`meta[name="citation_abstract"]`).AttrOr("content", ""))
	}
	if abstract == "" {
		return nil, ErrMissingAbstract
	}

	return &models.Paper{
		Title:    title,
		Authors:  authorLine,
		Abstract: abstract,
		URL:      url,
	}, nil
}
