package services

import (
	"context"
	"fmt"

	"github.com/varun4-here/PaperShare/internal/models"

	"github.com/rs/zerolog/log"
)

// Crawler fetches and extracts a paper from its abstract-page URL.
type Crawler interface {
	CrawlPaper(ctx context.Context, url string) (*models.Paper, error)
}

// Analyzer produces a fully populated analysis for a paper.
type Analyzer interface {
	Analyze(ctx context.Context, paper *models.Paper) *models.Analysis
}

// PaperStore is the persistence surface the pipeline needs.
type PaperStore interface {
	FindPaperByURL(url string) (*models.Paper, error)
	CreatePaper(candidate *models.Paper) (*models.Paper, error)
	FindAnalysis(paperID uint) (*models.Analysis, error)
	CreateAnalysis(analysis *models.Analysis) error
}

// PostBundle is the rendered output for one paper.
type PostBundle struct {
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Novice     string `json:"novice"`
	PaperTitle string `json:"paper_title"`
}

// PostService runs the pipeline for one submitted URL: normalize, fetch and
// extract on a store miss, analyze on an analysis miss, then render the
// three drafts. Each request executes sequentially; the store's unique
// constraints are the only guard against concurrent first-time submissions.
type PostService struct {
	crawler  Crawler
	store    PaperStore
	analyzer Analyzer
	renderer *RenderService
}

func NewPostService(crawler Crawler, store PaperStore, analyzer Analyzer, renderer *RenderService) *PostService {
	return &PostService{
		crawler:  crawler,
		store:    store,
		analyzer: analyzer,
		renderer: renderer,
	}
}

func (s *PostService) GeneratePosts(ctx context.Context, rawURL string) (*PostBundle, error) {
	url, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	paper, err := s.store.FindPaperByURL(url)
	if err != nil {
		return nil, fmt.Errorf("paper lookup failed: %w", err)
	}
	if paper == nil {
		candidate, err := s.crawler.CrawlPaper(ctx, url)
		if err != nil {
			return nil, err
		}
		paper, err = s.store.CreatePaper(candidate)
		if err != nil {
			return nil, fmt.Errorf("paper insert failed: %w", err)
		}
		log.Info().Uint("paper_id", paper.ID).Str("url", url).Msg("stored new paper")
	} else {
		log.Info().Uint("paper_id", paper.ID).Str("url", url).Msg("paper served from store")
	}

	analysis, err := s.store.FindAnalysis(paper.ID)
	if err != nil {
		return nil, fmt.Errorf("analysis lookup failed: %w", err)
	}
	if analysis == nil {
		analysis = s.analyzer.Analyze(ctx, paper)
		analysis.PaperID = paper.ID
		if err := s.store.CreateAnalysis(analysis); err != nil {
			// A lost insert race or transient failure still leaves a usable
			// in-memory analysis; render from it and move on.
			log.Warn().Err(err).Uint("paper_id", paper.ID).Msg("failed to persist analysis")
		}
	}

	return &PostBundle{
		LinkedIn:   s.renderer.LinkedInPost(paper, analysis),
		Twitter:    s.renderer.TwitterThread(paper, analysis),
		Novice:     s.renderer.NoviceSummary(paper, analysis),
		PaperTitle: paper.Title,
	}, nil
}
