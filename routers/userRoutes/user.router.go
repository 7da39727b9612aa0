package userRoutes

import (
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	"lms/validators"
	userValidators "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(router fiber.Router) {
	userGroup := router.Group("/users")

	userGroup.Put("/me/profile", middleware.JWTMiddleware, userValidators.UpdateProfile(), userControllers.UpdateProfile)

	// Admin user management
	userGroup.Get("", middleware.JWTMiddleware, middleware.AdminOnly(), validators.Pagination(), userValidators.UserList(), userControllers.UserList)
	userGroup.Post("", middleware.JWTMiddleware, middleware.AdminOnly(), userValidators.CreateUser(), userControllers.CreateUser)
	userGroup.Get("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.IDParam("id"), userControllers.GetUser)
	userGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.IDParam("id"), userValidators.UpdateUser(), userControllers.UpdateUser)
	userGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.IDParam("id"), userControllers.DeleteUser)
}
