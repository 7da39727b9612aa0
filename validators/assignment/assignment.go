package assignmentValidator

import (
	"strings"
	"time"

	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type AssignmentRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=200,safetext"`
	Description string    `json:"description" validate:"max=20000"`
	ModuleID    *uint     `json:"module_id" validate:"omitempty,gt=0"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxScore    float64   `json:"max_score" validate:"required,gt=0,lte=1000"`
	AllowLate   bool      `json:"allow_late"`
	LatePenalty float64   `json:"late_penalty" validate:"min=0,max=100"`
	IsPublished bool      `json:"is_published"`
}

func (r *AssignmentRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return nil
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200,safetext"`
	Description *string    `json:"description" validate:"omitempty,max=20000"`
	ModuleID    *uint      `json:"module_id" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    *float64   `json:"max_score" validate:"omitempty,gt=0,lte=1000"`
	AllowLate   *bool      `json:"allow_late"`
	LatePenalty *float64   `json:"late_penalty" validate:"omitempty,min=0,max=100"`
	IsPublished *bool      `json:"is_published"`
}

// SubmitRequest is read from JSON or from the multipart form next to the file
type SubmitRequest struct {
	Content string `json:"content" form:"content" validate:"max=50000"`
}

type GradeRequest struct {
	Score    *float64 `json:"score" validate:"required,min=0"`
	Feedback string   `json:"feedback" validate:"max=5000"`
}

func CreateAssignment() fiber.Handler {
	return validators.ValidateBody[AssignmentRequest]("validatedAssignment")
}

func UpdateAssignment() fiber.Handler {
	return validators.ValidateBody[UpdateAssignmentRequest]("validatedAssignmentUpdate")
}

func Submit() fiber.Handler {
	return validators.ValidateBody[SubmitRequest]("validatedSubmission")
}

func Grade() fiber.Handler {
	return validators.ValidateBody[GradeRequest]("validatedGrade")
}
