package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RolePlayer  UserRole = "PLAYER"
	RoleSupport UserRole = "SUPPORT"
	RoleLead    UserRole = "LEAD"
	RoleAdmin   UserRole = "ADMIN"
)

// User is a console identity. Players file petitions; SUPPORT and above can
// see and act on events.
type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AccountName string         `json:"accountName" gorm:"uniqueIndex;not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	Role        UserRole       `json:"role" gorm:"not null;default:'PLAYER'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// IsAgent reports whether the role grants the support privilege.
func (r UserRole) IsAgent() bool {
	return r == RoleSupport || r == RoleLead || r == RoleAdmin
}
