package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/varun4-here/PaperShare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockCrawler struct {
	mock.Mock
}

func (m *MockCrawler) CrawlPaper(ctx context.Context, url string) (*models.Paper, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paper), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindPaperByURL(url string) (*models.Paper, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paper), args.Error(1)
}

func (m *MockStore) CreatePaper(candidate *models.Paper) (*models.Paper, error) {
	args := m.Called(candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paper), args.Error(1)
}

func (m *MockStore) FindAnalysis(paperID uint) (*models.Analysis, error) {
	args := m.Called(paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *MockStore) CreateAnalysis(analysis *models.Analysis) error {
	args := m.Called(analysis)
	return args.Error(0)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, paper *models.Paper) *models.Analysis {
	args := m.Called(ctx, paper)
	return args.Get(0).(*models.Analysis)
}

const testURL = "https://arxiv.org/abs/1706.03762"

func storedPaper(id uint) *models.Paper {
	paper := testPaper()
	paper.ID = id
	return paper
}

func newPipeline(crawler *MockCrawler, store *MockStore, analyzer *MockAnalyzer) *PostService {
	renderer := NewRenderService(rand.New(rand.NewSource(1)))
	return NewPostService(crawler, store, analyzer, renderer)
}

func TestGeneratePostsNewPaper(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	candidate := testPaper()
	stored := storedPaper(7)
	analysis := AnalyzeWithTemplate(stored)

	store.On("FindPaperByURL", testURL).Return(nil, nil)
	crawler.On("CrawlPaper", mock.Anything, testURL).Return(candidate, nil)
	store.On("CreatePaper", candidate).Return(stored, nil)
	store.On("FindAnalysis", uint(7)).Return(nil, nil)
	analyzer.On("Analyze", mock.Anything, stored).Return(analysis)
	store.On("CreateAnalysis", mock.MatchedBy(func(a *models.Analysis) bool {
		return a.PaperID == 7
	})).Return(nil)

	bundle, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, stored.Title, bundle.PaperTitle)
	assert.NotEmpty(t, bundle.LinkedIn)
	assert.NotEmpty(t, bundle.Twitter)
	assert.NotEmpty(t, bundle.Novice)

	crawler.AssertExpectations(t)
	store.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestGeneratePostsServedFromStore(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	stored := storedPaper(3)
	analysis := AnalyzeWithTemplate(stored)
	analysis.PaperID = 3

	store.On("FindPaperByURL", testURL).Return(stored, nil)
	store.On("FindAnalysis", uint(3)).Return(analysis, nil)

	bundle, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, stored.Title, bundle.PaperTitle)

	crawler.AssertNotCalled(t, "CrawlPaper", mock.Anything, mock.Anything)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestGeneratePostsNormalizesBeforeLookup(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	stored := storedPaper(3)
	analysis := AnalyzeWithTemplate(stored)

	// The PDF form is rewritten to the abstract form before the store is
	// consulted, so both spellings hit the same record.
	store.On("FindPaperByURL", testURL).Return(stored, nil)
	store.On("FindAnalysis", uint(3)).Return(analysis, nil)

	_, err := newPipeline(crawler, store, analyzer).
		GeneratePosts(context.Background(), "https://arxiv.org/pdf/1706.03762.pdf")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGeneratePostsInvalidURL(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	_, err := newPipeline(crawler, store, analyzer).
		GeneratePosts(context.Background(), "https://example.com/abs/1706.03762")

	assert.ErrorIs(t, err, ErrInvalidURL)
	store.AssertNotCalled(t, "FindPaperByURL", mock.Anything)
	crawler.AssertNotCalled(t, "CrawlPaper", mock.Anything, mock.Anything)
}

func TestGeneratePostsCrawlFailure(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	store.On("FindPaperByURL", testURL).Return(nil, nil)
	crawler.On("CrawlPaper", mock.Anything, testURL).Return(nil, ErrNetwork)

	_, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	assert.ErrorIs(t, err, ErrNetwork)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestGeneratePostsLookupFailure(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	store.On("FindPaperByURL", testURL).Return(nil, gorm.ErrInvalidDB)

	_, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
}

func TestGeneratePostsAnalysisPersistFailureStillRenders(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	stored := storedPaper(4)
	analysis := AnalyzeWithTemplate(stored)

	store.On("FindPaperByURL", testURL).Return(stored, nil)
	store.On("FindAnalysis", uint(4)).Return(nil, nil)
	analyzer.On("Analyze", mock.Anything, stored).Return(analysis)
	store.On("CreateAnalysis", mock.Anything).Return(errors.New("connection reset"))

	bundle, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	require.NoError(t, err)
	assert.NotEmpty(t, bundle.LinkedIn)
	store.AssertExpectations(t)
}

func TestGeneratePostsDuplicateInsertReturnsExisting(t *testing.T) {
	crawler := new(MockCrawler)
	store := new(MockStore)
	analyzer := new(MockAnalyzer)

	candidate := testPaper()
	existing := storedPaper(11)
	analysis := AnalyzeWithTemplate(existing)
	analysis.PaperID = 11

	store.On("FindPaperByURL", testURL).Return(nil, nil)
	crawler.On("CrawlPaper", mock.Anything, testURL).Return(candidate, nil)
	// A concurrent submission won the insert; the store hands back the
	// existing row and the pipeline proceeds with its id.
	store.On("CreatePaper", candidate).Return(existing, nil)
	store.On("FindAnalysis", uint(11)).Return(analysis, nil)

	bundle, err := newPipeline(crawler, store, analyzer).GeneratePosts(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, existing.Title, bundle.PaperTitle)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}
