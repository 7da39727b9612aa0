package forumRoutes

import (
	forumControllers "lms/controllers/forum"
	"lms/middleware"
	"lms/validators"
	forumValidators "lms/validators/forum"

	"github.com/gofiber/fiber/v2"
)

func SetupForumRoutes(router fiber.Router) {
	id := validators.IDParam("id")

	router.Get("/courses/:id/forums", middleware.JWTMiddleware, id, forumControllers.ListForums)
	router.Post("/courses/:id/forums", middleware.JWTMiddleware, middleware.StaffOnly(), id, forumValidators.CreateForum(), forumControllers.CreateForum)

	forumGroup := router.Group("/forums")
	forumGroup.Delete("/:id", middleware.JWTMiddleware, middleware.StaffOnly(), id, forumControllers.DeleteForum)
	forumGroup.Get("/:id/threads", middleware.JWTMiddleware, id, validators.Pagination(), forumControllers.ListThreads)
	forumGroup.Post("/:id/threads", middleware.JWTMiddleware, id, forumValidators.CreateThread(), forumControllers.CreateThread)

	threadGroup := router.Group("/threads")
	threadGroup.Get("/:id", middleware.JWTMiddleware, id, forumControllers.GetThread)
	threadGroup.Delete("/:id", middleware.JWTMiddleware, id, forumControllers.DeleteThread)
	threadGroup.Post("/:id/pin", middleware.JWTMiddleware, middleware.StaffOnly(), id, forumValidators.PinThread(), forumControllers.PinThread)
	threadGroup.Post("/:id/lock", middleware.JWTMiddleware, middleware.StaffOnly(), id, forumValidators.LockThread(), forumControllers.LockThread)
	threadGroup.Post("/:id/replies", middleware.JWTMiddleware, id, forumValidators.CreateReply(), forumControllers.CreateReply)

	router.Delete("/replies/:id", middleware.JWTMiddleware, id, forumControllers.DeleteReply)
}
