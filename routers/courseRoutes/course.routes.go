package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers the catalog, module and lesson routes
func SetupCourseRoutes(router fiber.Router) {
	courseGroup := router.Group("/courses")
	id := validators.IDParam("id")

	courseGroup.Get("", middleware.JWTMiddleware, validators.Pagination(), courseValidators.CourseList(), controllers.GetAllCourses)
	courseGroup.Post("", middleware.JWTMiddleware, middleware.StaffOnly(), courseValidators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:id", middleware.JWTMiddleware, id, controllers.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, controllers.DeleteCourse)
	courseGroup.Post("/:id/publish", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.PublishCourse(), controllers.PublishCourse)

	// Modules
	courseGroup.Get("/:id/modules", middleware.JWTMiddleware, id, controllers.ListModules)
	courseGroup.Post("/:id/modules", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.CreateModule(), controllers.CreateModule)

	moduleGroup := router.Group("/modules")
	moduleGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.UpdateModule(), controllers.UpdateModule)
	moduleGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, controllers.DeleteModule)
	moduleGroup.Get("/:id/lessons", middleware.JWTMiddleware, id, controllers.ListLessons)
	moduleGroup.Post("/:id/lessons", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.CreateLesson(), controllers.CreateLesson)

	// Lessons
	lessonGroup := router.Group("/lessons")
	lessonGroup.Get("/:id", middleware.JWTMiddleware, id, controllers.GetLesson)
	lessonGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, courseValidators.UpdateLesson(), controllers.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, controllers.DeleteLesson)
	lessonGroup.Post("/:id/complete", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleStudent), id, controllers.MarkLessonComplete)
}
