package courseValidator

import (
	"strings"

	"lms/middleware"
	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type ManualEnrollRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

func ManualEnroll() fiber.Handler {
	return validators.ValidateBody[ManualEnrollRequest]("validatedEnroll")
}

// EnrollmentList checks the optional status filter
func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch strings.ToUpper(c.Query("status")) {
		case "", models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentDropped:
			return c.Next()
		}
		return middleware.ValidationErrorResponse(c, map[string]string{
			"status": "Status must be one of ACTIVE, COMPLETED, DROPPED!",
		})
	}
}
