package quizRoutes

import (
	quizControllers "lms/controllers/quiz"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	quizValidators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(router fiber.Router) {
	id := validators.IDParam("id")
	student := middleware.RequireRoles(models.RoleStudent)

	router.Get("/courses/:id/quizzes", middleware.JWTMiddleware, id, quizControllers.ListQuizzes)
	router.Post("/courses/:id/quizzes", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizValidators.CreateQuiz(), quizControllers.CreateQuiz)

	quizGroup := router.Group("/quizzes")
	quizGroup.Get("/:id", middleware.JWTMiddleware, id, quizControllers.GetQuiz)
	quizGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizValidators.UpdateQuiz(), quizControllers.UpdateQuiz)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizControllers.DeleteQuiz)
	quizGroup.Post("/:id/questions", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizValidators.CreateQuestion(), quizControllers.CreateQuestion)
	quizGroup.Post("/:id/attempts", middleware.JWTMiddleware, student, id, quizControllers.StartAttempt)
	quizGroup.Get("/:id/attempts/me", middleware.JWTMiddleware, id, quizControllers.ListMyAttempts)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, middleware.StaffOnly(), id, validators.Pagination(), quizControllers.ListQuizAttempts)

	questionGroup := router.Group("/questions")
	questionGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizValidators.UpdateQuestion(), quizControllers.UpdateQuestion)
	questionGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, quizControllers.DeleteQuestion)

	// Attempts
	attemptGroup := router.Group("/attempts")
	attemptGroup.Get("/:id", middleware.JWTMiddleware, id, quizControllers.GetAttempt)
	attemptGroup.Post("/:id/activity", middleware.JWTMiddleware, student, id, quizValidators.Activity(), quizControllers.RecordActivity)
	attemptGroup.Post("/:id/submit", middleware.JWTMiddleware, student, id, quizValidators.SubmitAttempt(), quizControllers.SubmitAttempt)
}
