package models

import (
	"github.com/lib/pq"
)

// AccountName is the resolved identity projection for an account: the primary
// account name plus the in-game display names attached to it. Resolution goes
// through the game-info provider and is cached, so instances may lag the
// provider by up to the cache TTL.
type AccountName struct {
	AccountName      string         `json:"accountName"`
	GameNames        pq.StringArray `json:"gameNames" gorm:"type:text[]"`
	DeletedGameNames pq.StringArray `json:"deletedGameNames" gorm:"type:text[]"`
}

// Handle is the anonymized projection shown to players in place of a staff
// or internal account name: no raw account name, no deleted game names.
type Handle struct {
	GameNames []string `json:"gameNames"`
}

// ToHandle strips the raw account name and drops deleted game names.
func (a AccountName) ToHandle() Handle {
	names := make([]string, 0, len(a.GameNames))
	names = append(names, a.GameNames...)
	return Handle{GameNames: names}
}
