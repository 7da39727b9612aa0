package routers

import (
	adminRoutes "lms/routers/adminRoutes"
	assignmentRoutes "lms/routers/assignmentRoutes"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	forumRoutes "lms/routers/forumRoutes"
	notificationRoutes "lms/routers/notificationRoutes"
	quizRoutes "lms/routers/quizRoutes"
	userRoutes "lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts every API route group under /api
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	authRoutes.SetupAuthRoutes(api)
	userRoutes.SetupUserRoutes(api)
	courseRoutes.SetupCourseRoutes(api)
	courseRoutes.SetupEnrollmentRoutes(api)
	courseRoutes.SetupCertificateRoutes(api)
	assignmentRoutes.SetupAssignmentRoutes(api)
	quizRoutes.SetupQuizRoutes(api)
	forumRoutes.SetupForumRoutes(api)
	notificationRoutes.SetupNotificationRoutes(api)
	adminRoutes.SetupAdminRoutes(api)
}
