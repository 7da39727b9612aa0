package forumValidator

import (
	"strings"

	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type ForumRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200,safetext"`
	Description string `json:"description" validate:"max=5000"`
}

func (r *ForumRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return nil
}

type ThreadRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200,safetext"`
	Content string `json:"content" validate:"required,max=20000"`
}

func (r *ThreadRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	return nil
}

type ReplyRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

func (r *ReplyRequest) Normalize() map[string]string {
	r.Content = strings.TrimSpace(r.Content)
	return nil
}

type PinRequest struct {
	IsPinned *bool `json:"is_pinned" validate:"required"`
}

type LockRequest struct {
	IsLocked *bool `json:"is_locked" validate:"required"`
}

func CreateForum() fiber.Handler {
	return validators.ValidateBody[ForumRequest]("validatedForum")
}

func CreateThread() fiber.Handler {
	return validators.ValidateBody[ThreadRequest]("validatedThread")
}

func CreateReply() fiber.Handler {
	return validators.ValidateBody[ReplyRequest]("validatedReply")
}

func PinThread() fiber.Handler {
	return validators.ValidateBody[PinRequest]("validatedPin")
}

func LockThread() fiber.Handler {
	return validators.ValidateBody[LockRequest]("validatedLock")
}
