package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uint       `json:"course_id" gorm:"index;uniqueIndex:idx_certificate_user_course;not null"`
	CertificateNumber string     `json:"certificate_number" gorm:"size:40;uniqueIndex"`
	VerificationCode  string     `json:"verification_code" gorm:"size:40;uniqueIndex"`
	IssuedAt          time.Time  `json:"issued_at"`
	IssuedBy          *uint      `json:"issued_by"`
	IsRevoked         bool       `json:"is_revoked" gorm:"default:false"`
	RevokedAt         *time.Time `json:"revoked_at"`
	RevokeReason      string     `json:"revoke_reason"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
