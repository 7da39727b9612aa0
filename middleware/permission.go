package middleware

import (
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that only lets the listed roles through.
// It must run after JWTMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		if !allowed[role] {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// AdminOnly is RequireRoles(ADMIN)
func AdminOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

// StaffOnly lets admins and instructors through
func StaffOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleInstructor)
}

// CurrentUser returns the user loaded by JWTMiddleware
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
