package adminRoutes

import (
	adminControllers "lms/controllers/admin"
	"lms/middleware"
	"lms/validators"
	settingsValidators "lms/validators/settings"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes registers analytics, settings, audit log and backup routes
func SetupAdminRoutes(router fiber.Router) {
	analyticsGroup := router.Group("/analytics")
	analyticsGroup.Get("/dashboard", middleware.JWTMiddleware, middleware.AdminOnly(), adminControllers.Dashboard)
	analyticsGroup.Get("/courses/:id", middleware.JWTMiddleware, middleware.StaffOnly(), validators.IDParam("id"), adminControllers.CourseAnalytics)
	analyticsGroup.Get("/me", middleware.JWTMiddleware, adminControllers.MyAnalytics)

	settingsGroup := router.Group("/settings")
	settingsGroup.Get("/public", adminControllers.PublicSettings)
	settingsGroup.Get("", middleware.JWTMiddleware, middleware.AdminOnly(), adminControllers.ListSettings)
	settingsGroup.Put("", middleware.JWTMiddleware, middleware.AdminOnly(), settingsValidators.UpdateSettings(), adminControllers.UpdateSettings)

	router.Get("/audit-logs", middleware.JWTMiddleware, middleware.AdminOnly(), validators.Pagination(), adminControllers.ListAuditLogs)

	backupGroup := router.Group("/backup")
	backupGroup.Post("", middleware.JWTMiddleware, middleware.AdminOnly(), adminControllers.CreateBackup)
	backupGroup.Get("", middleware.JWTMiddleware, middleware.AdminOnly(), adminControllers.ListBackups)
	backupGroup.Get("/:name", middleware.JWTMiddleware, middleware.AdminOnly(), adminControllers.DownloadBackup)
}
