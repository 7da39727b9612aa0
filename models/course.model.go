package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CourseDraft     = "DRAFT"
	CoursePublished = "PUBLISHED"
	CourseArchived  = "ARCHIVED"
)

// Course represents a learning course owned by an instructor
type Course struct {
	gorm.Model
	Title         string     `json:"title" gorm:"size:200;not null"`
	Code          string     `json:"code" gorm:"size:50;uniqueIndex"`
	Description   string     `json:"description" gorm:"type:text"`
	Category      string     `json:"category" gorm:"size:100;index"`
	InstructorID  uint       `json:"instructor_id" gorm:"index;not null"`
	Status        string     `json:"status" gorm:"size:20;default:'DRAFT'"` // DRAFT, PUBLISHED, ARCHIVED
	IsPublished   bool       `json:"is_published" gorm:"default:false"`
	Capacity      int        `json:"capacity" gorm:"default:0"` // 0 means unlimited
	DurationHours int        `json:"duration_hours" gorm:"default:0"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	IsDeleted     bool       `json:"-" gorm:"default:false"`

	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
}

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
