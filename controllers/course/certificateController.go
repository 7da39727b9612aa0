package controllers

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	certificateValidator "lms/validators/certificate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func issueCertificate(userID, courseID uint, issuedBy *uint) (*models.Certificate, error) {
	now := time.Now()
	cert := models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: utils.GenerateCertificateNumber(now),
		VerificationCode:  utils.GenerateVerificationCode(),
		IssuedAt:          now,
		IssuedBy:          issuedBy,
	}
	if err := database.Database.Db.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func findCertificate(userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// ClaimCertificate issues the caller's certificate for a completed course, or returns the existing one
func ClaimCertificate(c *fiber.Ctx) error {
	userID, _ := session(c)

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}

	// Check enrollment and completion
	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, course.ID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}
	if enrollment.Status != models.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	if existing, err := findCertificate(userID, course.ID); err == nil {
		if existing.IsRevoked {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your certificate for this course has been revoked!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued.", existing)
	}

	cert, err := issueCertificate(userID, course.ID, nil)
	if utils.IsDuplicateKey(err) {
		if existing, ferr := findCertificate(userID, course.ID); ferr == nil && !existing.IsRevoked {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued.", existing)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", nil)
	}
	if err != nil {
		log.Printf("Error issuing certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	utils.Notify(userID, models.NotifyCertificate, "Certificate issued",
		"Your certificate for "+course.Title+" is ready. Number: "+cert.CertificateNumber, "/certificates/me")
	utils.RecordAudit(c, utils.AuditCertificateIssue, "certificate", cert.ID, fiber.Map{"course_id": course.ID, "number": cert.CertificateNumber})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

// IssueCertificate lets a course manager issue a certificate to a student
func IssueCertificate(c *fiber.Ctx) error {
	managerID, role := session(c)
	reqData := validators.Body[certificateValidator.IssueRequest](c, "validatedIssue")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := utils.FindCourse(reqData.CourseID)
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, managerID, course) {
		return forbidden(c)
	}

	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&student).Error; err != nil {
		return notFoundOr500(c, err, "User")
	}

	if role != models.RoleAdmin {
		var completed int64
		database.Database.Db.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status = ?", student.ID, course.ID, false, models.EnrollmentCompleted).
			Count(&completed)
		if completed == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The student has not completed this course!", nil)
		}
	}

	if _, err := findCertificate(student.ID, course.ID); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", nil)
	}

	cert, err := issueCertificate(student.ID, course.ID, &managerID)
	if utils.IsDuplicateKey(err) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", nil)
	}
	if err != nil {
		log.Printf("Error issuing certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	utils.Notify(student.ID, models.NotifyCertificate, "Certificate issued",
		"Your certificate for "+course.Title+" is ready. Number: "+cert.CertificateNumber, "/certificates/me")
	utils.RecordAudit(c, utils.AuditCertificateIssue, "certificate", cert.ID, fiber.Map{
		"course_id": course.ID, "user_id": student.ID, "number": cert.CertificateNumber,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, _ := session(c)

	var certs []models.Certificate
	if err := database.Database.Db.Preload("Course").Where("user_id = ?", userID).
		Order("issued_at desc").Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

func GetCourseCertificates(c *fiber.Ctx) error {
	userID, role := session(c)
	page := validators.Page(c)

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	query := database.Database.Db.Model(&models.Certificate{}).Where("course_id = ?", course.ID)
	var total int64
	query.Count(&total)

	var certs []models.Certificate
	if err := query.Preload("User").Order("issued_at desc").
		Offset(page.Offset).Limit(page.Limit).Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certs,
		"pagination":   middleware.NewPagination(total, page.Page, page.Limit),
	})
}

// VerifyCertificate is public and exposes only what a verifier needs
func VerifyCertificate(c *fiber.Ctx) error {
	var cert models.Certificate
	if err := database.Database.Db.Preload("User").Preload("Course").
		Where("verification_code = ?", c.Params("code")).First(&cert).Error; err != nil {
		return notFoundOr500(c, err, "Certificate")
	}

	holder, courseTitle := "", ""
	if cert.User != nil {
		holder = cert.User.Name
	}
	if cert.Course != nil {
		courseTitle = cert.Course.Title
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified.", fiber.Map{
		"certificate_number": cert.CertificateNumber,
		"holder_name":        holder,
		"course_title":       courseTitle,
		"issued_at":          cert.IssuedAt,
		"is_valid":           !cert.IsRevoked,
		"revoked_at":         cert.RevokedAt,
	})
}

// RevokeCertificate invalidates a certificate; the row is kept for verification lookups
func RevokeCertificate(c *fiber.Ctx) error {
	reqData := validators.Body[certificateValidator.RevokeRequest](c, "validatedRevoke")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var cert models.Certificate
	if err := database.Database.Db.First(&cert, validators.ID(c, "id")).Error; err != nil {
		return notFoundOr500(c, err, "Certificate")
	}
	if cert.IsRevoked {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate is already revoked!", nil)
	}

	now := time.Now()
	if err := database.Database.Db.Model(&cert).Updates(map[string]interface{}{
		"is_revoked":    true,
		"revoked_at":    now,
		"revoke_reason": reqData.Reason,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke certificate!", nil)
	}

	utils.Notify(cert.UserID, models.NotifyCertificate, "Certificate revoked",
		"Your certificate "+cert.CertificateNumber+" has been revoked: "+reqData.Reason, "/certificates/me")
	utils.RecordAudit(c, utils.AuditCertificateRevoke, "certificate", cert.ID, fiber.Map{"reason": reqData.Reason})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked successfully!", cert)
}
