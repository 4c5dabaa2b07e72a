package models

import (
	"time"
)

type MessageAccess string

const (
	AccessNormal  MessageAccess = "NORMAL"  // visible to the filing player
	AccessSupport MessageAccess = "SUPPORT" // internal note, staff only
)

// Message belongs to exactly one Event and is immutable once written.
// Display order is Entered descending.
type Message struct {
	ID      uint          `json:"id" gorm:"primaryKey"`
	EventID uint          `json:"eventId" gorm:"not null;index"`
	Author  string        `json:"author" gorm:"not null"`
	Body    string        `json:"body" gorm:"type:text;not null"`
	Access  MessageAccess `json:"access" gorm:"not null;default:'NORMAL'"`
	Entered time.Time     `json:"entered" gorm:"not null;index"`
}

func (Message) TableName() string {
	return "messages"
}

func (a MessageAccess) Valid() bool {
	return a == AccessNormal || a == AccessSupport
}
