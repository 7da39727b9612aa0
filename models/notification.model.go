package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotifyInfo        = "INFO"
	NotifyEnrollment  = "ENROLLMENT"
	NotifyAssignment  = "ASSIGNMENT"
	NotifyGrade       = "GRADE"
	NotifyQuiz        = "QUIZ"
	NotifyForum       = "FORUM"
	NotifyCertificate = "CERTIFICATE"
	NotifySystem      = "SYSTEM"
)

type Notification struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Title     string     `json:"title" gorm:"size:200"`
	Message   string     `json:"message" gorm:"type:text"`
	Type      string     `json:"type" gorm:"size:20;default:'INFO'"`
	Link      string     `json:"link"`
	IsRead    bool       `json:"is_read" gorm:"index;default:false"`
	ReadAt    *time.Time `json:"read_at"`
	IsDeleted bool       `json:"-" gorm:"default:false"`
}
