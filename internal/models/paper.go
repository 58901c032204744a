package models

import "gorm.io/gorm"

// Paper is the metadata extracted from an arXiv abstract page. The URL is
// the canonical abstract-page form and uniquely identifies a paper;
// re-submitting a known URL retrieves this row instead of creating another.
type Paper struct {
	gorm.Model
	Title    string    `gorm:"not null"`
	Authors  string
	Abstract string    `gorm:"not null"`
	URL      string    `gorm:"uniqueIndex;not null"`
	Analysis *Analysis `gorm:"constraint:OnDelete:CASCADE"`
}
