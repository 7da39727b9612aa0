package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	certificateValidators "lms/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(router fiber.Router) {
	id := validators.IDParam("id")

	router.Post("/courses/:id/certificate", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleStudent), id, controllers.ClaimCertificate)
	router.Get("/courses/:id/certificates", middleware.JWTMiddleware, middleware.StaffOnly(), id, validators.Pagination(), controllers.GetCourseCertificates)

	certGroup := router.Group("/certificates")
	certGroup.Post("", middleware.JWTMiddleware, middleware.StaffOnly(), certificateValidators.Issue(), controllers.IssueCertificate)
	certGroup.Get("/me", middleware.JWTMiddleware, controllers.GetUserCertificates)
	certGroup.Get("/verify/:code", certificateValidators.VerificationCode(), controllers.VerifyCertificate)
	certGroup.Post("/:id/revoke", middleware.JWTMiddleware, middleware.AdminOnly(), id, certificateValidators.Revoke(), controllers.RevokeCertificate)
}
