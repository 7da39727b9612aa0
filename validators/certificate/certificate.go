package certificateValidator

import (
	"regexp"
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

var verificationCodePattern = regexp.MustCompile(`^[a-fA-F0-9-]{36}$`)

type IssueRequest struct {
	UserID   uint `json:"user_id" validate:"required,gt=0"`
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

type RevokeRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (r *RevokeRequest) Normalize() map[string]string {
	r.Reason = strings.TrimSpace(r.Reason)
	return nil
}

func Issue() fiber.Handler {
	return validators.ValidateBody[IssueRequest]("validatedIssue")
}

func Revoke() fiber.Handler {
	return validators.ValidateBody[RevokeRequest]("validatedRevoke")
}

// VerificationCode rejects malformed codes before hitting the database
func VerificationCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !verificationCodePattern.MatchString(c.Params("code")) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification code!", nil)
		}
		return c.Next()
	}
}
