package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

// ValidRoles lists every role a user can hold
var ValidRoles = []string{RoleAdmin, RoleInstructor, RoleStudent}

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"size:120;not null"`
	Email               string     `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"size:20;index;default:'STUDENT'"` // ADMIN, INSTRUCTOR, STUDENT
	Bio                 string     `json:"bio" gorm:"type:text"`
	AvatarURL           string     `json:"avatar_url"`
	IsActive            bool       `json:"is_active"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// IsBlocked reports whether the account is temporarily locked after failed logins
func (u *User) IsBlocked(at time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(at)
}
