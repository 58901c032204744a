package services

import (
	"errors"

	"github.com/varun4-here/PaperShare/internal/models"

	"gorm.io/gorm"
)

// PaperService is the persistence glue for papers and their analyses.
type PaperService struct {
	db *gorm.DB
}

func NewPaperService(db *gorm.DB) *PaperService {
	return &PaperService{db: db}
}

// FindPaperByURL returns the stored paper for a URL, or nil when unseen.
func (s *PaperService) FindPaperByURL(url string) (*models.Paper, error) {
	var paper models.Paper
	err := s.db.Where("url = ?", url).First(&paper).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// CreatePaper inserts a candidate record. Losing the insert race to a
// concurrent request for the same URL is recovered by re-reading the
// winner's row; the URL unique constraint is the only guard.
func (s *PaperService) CreatePaper(candidate *models.Paper) (*models.Paper, error) {
	err := s.db.Create(candidate).Error
	if err == nil {
		return candidate, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing models.Paper
		if err := s.db.Where("url = ?", candidate.URL).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return nil, err
}

// FindAnalysis returns the stored analysis for a paper, or nil when absent.
func (s *PaperService) FindAnalysis(paperID uint) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.Where("paper_id = ?", paperID).First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// CreateAnalysis inserts the single analysis row for a paper. A second
// insert for the same paper id violates the primary key and is returned
// to the caller to decide on.
func (s *PaperService) CreateAnalysis(analysis *models.Analysis) error {
	return s.db.Create(analysis).Error
}
