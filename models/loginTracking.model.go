package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records each issued session for the login history
type LoginTracking struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Role       string    `json:"role" gorm:"size:20"`
	IPAddress  string    `json:"ip_address" gorm:"size:64"`
	UserAgent  string    `json:"user_agent"`
	LoggedInAt time.Time `json:"logged_in_at" gorm:"index"`
	ExpiresAt  time.Time `json:"expires_at"`
}
