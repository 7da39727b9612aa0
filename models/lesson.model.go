package models

import "gorm.io/gorm"

const (
	LessonText  = "TEXT"
	LessonVideo = "VIDEO"
	LessonPDF   = "PDF"
	LessonLink  = "LINK"
)

// Lesson is a unit of content inside a module
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	Title           string `json:"title" gorm:"size:200;not null"`
	ContentType     string `json:"content_type" gorm:"size:20;default:'TEXT'"` // TEXT, VIDEO, PDF, LINK
	Content         string `json:"content" gorm:"type:text"`
	MediaURL        string `json:"media_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `json:"-" gorm:"default:false"`
}

// LessonCompletion tracks a student's completion of a lesson
type LessonCompletion struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
	LessonID uint `json:"lesson_id" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
	CourseID uint `json:"course_id" gorm:"index;not null"`
}
