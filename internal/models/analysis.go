package models

import "encoding/json"

// Analysis is the structured commentary derived from a paper, either by
// Gemini or by the template fallback. One row per paper, cascade-deleted
// with it. Rows are written once and never updated.
type Analysis struct {
	PaperID         uint   `gorm:"primaryKey"`
	Headline        string `gorm:"not null"`
	Hook            string `gorm:"not null"`
	KeyFinding      string `gorm:"not null"`
	Method          string `gorm:"not null"`
	TechnicalDetail string `gorm:"not null"`
	Application     string `gorm:"not null"`
	PriorWork       string
	Limitation      string
	Advantage       string `gorm:"not null"`
	Stats           string
	PersonalTake    string `gorm:"not null"`
	OpenQuestion    string
	NoviceSummary   string
	LinkedInDraft   string
	Keywords        string // JSON-encoded list of tags
}

// KeywordList decodes the stored keyword encoding, preserving order. A
// corrupted value decodes to an empty list rather than an error.
func (a *Analysis) KeywordList() []string {
	if a.Keywords == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(a.Keywords), &keywords); err != nil {
		return nil
	}
	return keywords
}

// SetKeywordList stores keywords using the same encoding KeywordList reads.
func (a *Analysis) SetKeywordList(keywords []string) {
	encoded, err := json.Marshal(keywords)
	if err != nil {
		a.Keywords = "[]"
		return
	}
	a.Keywords = string(encoded)
}
