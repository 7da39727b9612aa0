package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Assignment is a graded task inside a course
type Assignment struct {
	gorm.Model
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	ModuleID     *uint     `json:"module_id" gorm:"index"`
	Title        string    `json:"title" gorm:"size:200;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	DueDate      time.Time `json:"due_date" gorm:"index"`
	MaxScore     float64   `json:"max_score"`
	AllowLate    bool      `json:"allow_late" gorm:"default:false"`
	LatePenalty  float64   `json:"late_penalty" gorm:"default:0"` // percent deducted from late work
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	ReminderSent bool      `json:"-" gorm:"default:false"`
	IsDeleted    bool      `json:"-" gorm:"default:false"`
}

// Submission is a student's work for an assignment
type Submission struct {
	gorm.Model
	AssignmentID uint       `json:"assignment_id" gorm:"index;not null"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	Content      string     `json:"content" gorm:"type:text"`
	FileURL      string     `json:"file_url"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	IsLate       bool       `json:"is_late" gorm:"default:false"`
	Status       string     `json:"status" gorm:"size:20;default:'SUBMITTED'"` // SUBMITTED, GRADED
	Score        *float64   `json:"score"`
	Feedback     string     `json:"feedback" gorm:"type:text"`
	GradedBy     *uint      `json:"graded_by"`
	GradedAt     *time.Time `json:"graded_at"`
	IsDeleted    bool       `json:"-" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
