package models

import (
	"time"

	"gorm.io/gorm"
)

type EventType string
type EventStatus string

const (
	TypeSupportAction EventType = "SUPPORT_ACTION"
	TypeNote          EventType = "NOTE"
	TypePetition      EventType = "PETITION"
	TypeComplaint     EventType = "COMPLAINT"
)

const (
	StatusOpen           EventStatus = "OPEN"
	StatusInProgress     EventStatus = "IN_PROGRESS"
	StatusPlayerClosed   EventStatus = "PLAYER_CLOSED"
	StatusResolvedClosed EventStatus = "RESOLVED_CLOSED"
	StatusIgnoredClosed  EventStatus = "IGNORED_CLOSED"
	StatusEscalatedLead  EventStatus = "ESCALATED_LEAD"
	StatusEscalatedAdmin EventStatus = "ESCALATED_ADMIN"
)

// Event is a single support interaction: a petition, complaint, note or
// an automated support action. Target is populated only for complaints.
type Event struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Type          EventType   `json:"type" gorm:"not null;index"`
	Status        EventStatus `json:"status" gorm:"not null;default:'OPEN';index"`
	Entered       time.Time   `json:"entered" gorm:"not null;index"`
	Updated       time.Time   `json:"updated" gorm:"not null;index"`
	FirstResponse *int64      `json:"firstResponse"` // millis from Entered, set at most once

	SourceName     string  `json:"sourceName" gorm:"not null;index"`
	SourceGameName *string `json:"sourceGameName" gorm:"index"`
	SourceIP       *string `json:"sourceIp"`
	SourceMachine  *string `json:"sourceMachine"`

	TargetName *string `json:"targetName" gorm:"index"`

	Owner            *string `json:"owner" gorm:"index"`
	WaitingForPlayer bool    `json:"waitingForPlayer" gorm:"not null;default:false"`

	Subject     string  `json:"subject" gorm:"not null"`
	ChatHistory string  `json:"chatHistory" gorm:"type:text"`
	Link        *string `json:"link"`
	Language    *string `json:"language" gorm:"size:2"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:EventID"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}

// OpenStatuses is the "open" partition of the status set; everything else
// counts as closed.
var OpenStatuses = []EventStatus{
	StatusOpen,
	StatusInProgress,
	StatusEscalatedLead,
	StatusEscalatedAdmin,
}

func (s EventStatus) IsOpen() bool {
	for _, o := range OpenStatuses {
		if s == o {
			return true
		}
	}
	return false
}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusPlayerClosed, StatusResolvedClosed,
		StatusIgnoredClosed, StatusEscalatedLead, StatusEscalatedAdmin:
		return true
	}
	return false
}

func (t EventType) Valid() bool {
	switch t {
	case TypeSupportAction, TypeNote, TypePetition, TypeComplaint:
		return true
	}
	return false
}
