package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(router fiber.Router) {
	courseGroup := router.Group("/courses")
	id := validators.IDParam("id")
	student := middleware.RequireRoles(models.RoleStudent)

	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, student, id, controllers.EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, student, id, controllers.DropCourse)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, student, id, controllers.GetCourseProgress)
	courseGroup.Get("/:id/enrollments", middleware.JWTMiddleware, middleware.StaffOnly(), id, validators.Pagination(), courseValidators.EnrollmentList(), controllers.GetCourseEnrollments)
	courseGroup.Post("/:id/enrollments", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.ManualEnroll(), controllers.ManagerEnroll)

	router.Get("/enrollments/me", middleware.JWTMiddleware, validators.Pagination(), controllers.GetMyEnrollments)
}
