package models

import (
	"time"

	"gorm.io/gorm"
)

type BanKind string

const (
	KindWarning  BanKind = "WARNING"
	KindTempBan  BanKind = "TEMP_BAN"
	KindPermaBan BanKind = "PERMA_BAN"
)

// Ban records a warning or ban issued against an account. Temp bans carry an
// expiry; the live enforcement flag lives in Redis with a matching TTL.
type Ban struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AccountName string         `json:"accountName" gorm:"not null;index"`
	Kind        BanKind        `json:"kind" gorm:"not null"`
	Reason      string         `json:"reason" gorm:"type:text;not null"`
	IssuedBy    string         `json:"issuedBy" gorm:"not null"`
	ExpiresAt   *time.Time     `json:"expiresAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Ban) TableName() string {
	return "bans"
}

func (k BanKind) Valid() bool {
	return k == KindWarning || k == KindTempBan || k == KindPermaBan
}
