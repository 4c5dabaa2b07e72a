package models

import (
	"time"

	"gorm.io/gorm"
)

// FAQ is a public question/answer entry, ordered by Position within a
// language.
type FAQ struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Question  string         `json:"question" gorm:"not null"`
	Answer    string         `json:"answer" gorm:"type:text;not null"`
	Language  string         `json:"language" gorm:"size:2;not null;default:'en';index"`
	Position  int            `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (FAQ) TableName() string {
	return "faqs"
}
