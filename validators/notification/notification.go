package notificationValidator

import (
	"strings"

	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Role    string `json:"role" validate:"omitempty,oneof=ADMIN INSTRUCTOR STUDENT"`
	Link    string `json:"link" validate:"max=500"`
}

func (r *BroadcastRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	return nil
}

func Broadcast() fiber.Handler {
	return validators.ValidateBody[BroadcastRequest]("validatedBroadcast")
}
