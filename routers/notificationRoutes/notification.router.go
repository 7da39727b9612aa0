package notificationRoutes

import (
	notificationControllers "lms/controllers/notification"
	"lms/middleware"
	"lms/validators"
	notificationValidators "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(router fiber.Router) {
	notificationGroup := router.Group("/notifications")
	id := validators.IDParam("id")

	notificationGroup.Get("", middleware.JWTMiddleware, validators.Pagination(), notificationControllers.ListNotifications)
	notificationGroup.Get("/unread-count", middleware.JWTMiddleware, notificationControllers.UnreadCount)
	notificationGroup.Put("/read-all", middleware.JWTMiddleware, notificationControllers.MarkAllRead)
	notificationGroup.Put("/:id/read", middleware.JWTMiddleware, id, notificationControllers.MarkRead)
	notificationGroup.Delete("/:id", middleware.JWTMiddleware, id, notificationControllers.DeleteNotification)
	notificationGroup.Post("/broadcast", middleware.JWTMiddleware, middleware.AdminOnly(), notificationValidators.Broadcast(), notificationControllers.Broadcast)
}
