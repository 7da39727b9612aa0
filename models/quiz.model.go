package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionMultipleSelect = "MULTIPLE_SELECT"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionShortAnswer    = "SHORT_ANSWER"
)

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptSubmitted  = "SUBMITTED"
	AttemptExpired    = "EXPIRED"
)

// Quiz is an auto-graded assessment inside a course
type Quiz struct {
	gorm.Model
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	ModuleID         *uint      `json:"module_id" gorm:"index"`
	Title            string     `json:"title" gorm:"size:200;not null"`
	Description      string     `json:"description" gorm:"type:text"`
	TimeLimitMinutes int        `json:"time_limit_minutes" gorm:"default:0"` // 0 means no limit
	MaxAttempts      int        `json:"max_attempts" gorm:"default:0"`       // 0 means unlimited
	PassingScore     float64    `json:"passing_score"`                       // percent
	ShuffleQuestions bool       `json:"shuffle_questions" gorm:"default:false"`
	ShowResults      bool       `json:"show_results"`
	IsPublished      bool       `json:"is_published" gorm:"default:false"`
	AvailableFrom    *time.Time `json:"available_from"`
	AvailableUntil   *time.Time `json:"available_until"`
	IsDeleted        bool       `json:"-" gorm:"default:false"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// QuizQuestion stores options and accepted answers as JSON string lists
type QuizQuestion struct {
	gorm.Model
	QuizID         uint                        `json:"quiz_id" gorm:"index;not null"`
	QuestionText   string                      `json:"question_text" gorm:"type:text;not null"`
	QuestionType   string                      `json:"question_type" gorm:"size:30;not null"`
	Options        datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswers datatypes.JSONSlice[string] `json:"correct_answers,omitempty"`
	Points         float64                     `json:"points"`
	OrderIndex     int                         `json:"order_index" gorm:"default:0"`
	Explanation    string                      `json:"explanation,omitempty" gorm:"type:text"`
	IsDeleted      bool                        `json:"-" gorm:"default:false"`
}

// QuizAttempt is one instance of a student taking a quiz
type QuizAttempt struct {
	gorm.Model
	QuizID           uint                                     `json:"quiz_id" gorm:"uniqueIndex:idx_attempt_quiz_user_number;not null"`
	UserID           uint                                     `json:"user_id" gorm:"index;uniqueIndex:idx_attempt_quiz_user_number;not null"`
	AttemptNumber    int                                      `json:"attempt_number" gorm:"uniqueIndex:idx_attempt_quiz_user_number;default:1"`
	Status           string                                   `json:"status" gorm:"size:20;index;default:'IN_PROGRESS'"`
	StartedAt        time.Time                                `json:"started_at"`
	SubmittedAt      *time.Time                               `json:"submitted_at"`
	Answers          datatypes.JSONType[map[string][]string] `json:"answers"`
	Score            float64                                  `json:"score" gorm:"default:0"`
	MaxScore         float64                                  `json:"max_score" gorm:"default:0"`
	Percentage       float64                                  `json:"percentage" gorm:"default:0"`
	Passed           bool                                     `json:"passed" gorm:"default:false"`
	TabSwitches      int                                      `json:"tab_switches" gorm:"default:0"`
	ActivityEvents   int                                      `json:"activity_events" gorm:"default:0"`
	IsSuspicious     bool                                     `json:"is_suspicious" gorm:"default:false"`
	SuspiciousReason string                                   `json:"suspicious_reason"`
	IPAddress        string                                   `json:"ip_address"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
