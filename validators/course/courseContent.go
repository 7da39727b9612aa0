package courseValidator

import (
	"strings"

	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type ModuleRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200,safetext"`
	Description string `json:"description" validate:"max=5000"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
}

func (r *ModuleRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return nil
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=200,safetext"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=0"`
}

type LessonRequest struct {
	Title           string `json:"title" validate:"required,min=2,max=200,safetext"`
	ContentType     string `json:"content_type" validate:"required,oneof=TEXT VIDEO PDF LINK"`
	Content         string `json:"content"`
	MediaURL        string `json:"media_url" validate:"omitempty,url,max=500"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	OrderIndex      int    `json:"order_index" validate:"min=0"`
	IsPublished     bool   `json:"is_published"`
}

func (r *LessonRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	r.ContentType = strings.ToUpper(strings.TrimSpace(r.ContentType))
	return CheckLessonContent(r.ContentType, r.Content, r.MediaURL)
}

type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=2,max=200,safetext"`
	ContentType     *string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO PDF LINK"`
	Content         *string `json:"content"`
	MediaURL        *string `json:"media_url" validate:"omitempty,url,max=500"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
	OrderIndex      *int    `json:"order_index" validate:"omitempty,min=0"`
	IsPublished     *bool   `json:"is_published"`
}

func (r *UpdateLessonRequest) Normalize() map[string]string {
	if r.ContentType != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ContentType))
		r.ContentType = &v
	}
	return nil
}

// CheckLessonContent makes sure text lessons carry content and media lessons a URL
func CheckLessonContent(contentType, content, mediaURL string) map[string]string {
	switch contentType {
	case models.LessonText:
		if strings.TrimSpace(content) == "" {
			return map[string]string{"content": "Content is required for text lessons!"}
		}
	case models.LessonVideo, models.LessonPDF, models.LessonLink:
		if strings.TrimSpace(mediaURL) == "" {
			return map[string]string{"media_url": "Media URL is required for this content type!"}
		}
	}
	return nil
}

func CreateModule() fiber.Handler {
	return validators.ValidateBody[ModuleRequest]("validatedModule")
}

func UpdateModule() fiber.Handler {
	return validators.ValidateBody[UpdateModuleRequest]("validatedModuleUpdate")
}

func CreateLesson() fiber.Handler {
	return validators.ValidateBody[LessonRequest]("validatedLesson")
}

func UpdateLesson() fiber.Handler {
	return validators.ValidateBody[UpdateLessonRequest]("validatedLessonUpdate")
}
