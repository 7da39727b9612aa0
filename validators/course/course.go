package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"
	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title         string     `json:"title" validate:"required,min=3,max=200,safetext"`
	Code          string     `json:"code" validate:"omitempty,max=50,safetext"`
	Description   string     `json:"description" validate:"required,min=5"`
	Category      string     `json:"category" validate:"max=100,safetext"`
	Capacity      int        `json:"capacity" validate:"min=0"`
	DurationHours int        `json:"duration_hours" validate:"min=0"`
	ThumbnailURL  string     `json:"thumbnail_url" validate:"omitempty,url,max=500"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	InstructorID  *uint      `json:"instructor_id" validate:"omitempty,gt=0"`
}

func (r *CreateCourseRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	return checkDates(r.StartDate, r.EndDate)
}

type UpdateCourseRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=3,max=200,safetext"`
	Description   *string    `json:"description" validate:"omitempty,min=5"`
	Category      *string    `json:"category" validate:"omitempty,max=100,safetext"`
	Status        *string    `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Capacity      *int       `json:"capacity" validate:"omitempty,min=0"`
	DurationHours *int       `json:"duration_hours" validate:"omitempty,min=0"`
	ThumbnailURL  *string    `json:"thumbnail_url" validate:"omitempty,url,max=500"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	InstructorID  *uint      `json:"instructor_id" validate:"omitempty,gt=0"`
}

func (r *UpdateCourseRequest) Normalize() map[string]string {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	return checkDates(r.StartDate, r.EndDate)
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

func checkDates(start, end *time.Time) map[string]string {
	if start != nil && end != nil && end.Before(*start) {
		return map[string]string{"end_date": "End date must be after start date!"}
	}
	return nil
}

func CreateCourse() fiber.Handler {
	return validators.ValidateBody[CreateCourseRequest]("validatedCourse")
}

func UpdateCourse() fiber.Handler {
	return validators.ValidateBody[UpdateCourseRequest]("validatedCourseUpdate")
}

func PublishCourse() fiber.Handler {
	return validators.ValidateBody[PublishRequest]("validatedPublish")
}

// CourseList checks the optional status filter
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := strings.ToUpper(c.Query("status"))
		switch status {
		case "", models.CourseDraft, models.CoursePublished, models.CourseArchived:
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be one of DRAFT, PUBLISHED, ARCHIVED!",
			})
		}
		return c.Next()
	}
}
