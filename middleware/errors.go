package middleware

import (
	"errors"
	"log"

	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error that escapes a handler in the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		switch code {
		case fiber.StatusNotFound:
			message = "Route not found!"
		case fiber.StatusMethodNotAllowed:
			message = "Method not allowed!"
		}
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		utils.ReportError(err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.OriginalURL(),
		})
	}

	return JsonResponse(c, code, false, message, nil)
}
