package authRoutes

import (
	"time"

	"lms/config"
	authControllers "lms/controllers/auth"
	"lms/middleware"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")

	loginLimiter := middleware.RateLimiter(config.AppConfig.LoginRateLimit, time.Minute, "Too many login attempts. Please try again later.")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", loginLimiter, authValidators.Login(), authControllers.Login)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Put("/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
}
