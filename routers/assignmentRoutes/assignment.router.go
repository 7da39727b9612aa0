package assignmentRoutes

import (
	assignmentControllers "lms/controllers/assignment"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	assignmentValidators "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

func SetupAssignmentRoutes(router fiber.Router) {
	id := validators.IDParam("id")

	router.Get("/courses/:id/assignments", middleware.JWTMiddleware, id, assignmentControllers.ListAssignments)
	router.Post("/courses/:id/assignments", middleware.JWTMiddleware, middleware.StaffOnly(), id, assignmentValidators.CreateAssignment(), assignmentControllers.CreateAssignment)

	assignmentGroup := router.Group("/assignments")
	assignmentGroup.Get("/:id", middleware.JWTMiddleware, id, assignmentControllers.GetAssignment)
	assignmentGroup.Put("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, assignmentValidators.UpdateAssignment(), assignmentControllers.UpdateAssignment)
	assignmentGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, assignmentControllers.DeleteAssignment)
	assignmentGroup.Post("/:id/submit", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleStudent), id, assignmentValidators.Submit(), assignmentControllers.SubmitAssignment)
	assignmentGroup.Get("/:id/submissions", middleware.JWTMiddleware, middleware.StaffOnly(), id, validators.Pagination(), assignmentControllers.ListSubmissions)
	assignmentGroup.Get("/:id/submission", middleware.JWTMiddleware, id, assignmentControllers.GetMySubmission)

	router.Post("/submissions/:id/grade", middleware.JWTMiddleware, middleware.StaffOnly(), id, assignmentValidators.Grade(), assignmentControllers.GradeSubmission)
}
