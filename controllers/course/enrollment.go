package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errCourseNotPublished = errors.New("Course is not open for enrollment!")
	errAlreadyEnrolled    = errors.New("Already enrolled in this course!")
	errCourseFull         = errors.New("Course is full")
)

// enrollUser creates or reactivates an enrollment. The seat count and the insert
// run in one transaction with the course row locked where the driver supports it.
func enrollUser(courseID, userID uint, requirePublished, enforceCapacity bool) (*models.Enrollment, error) {
	db := database.Database.Db
	var enrollment models.Enrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		courseQuery := tx
		if tx.Dialector.Name() != "sqlite" {
			courseQuery = courseQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var course models.Course
		if err := courseQuery.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
			return err
		}
		if requirePublished && course.Status != models.CoursePublished {
			return errCourseNotPublished
		}

		existing := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment)
		found := existing.Error == nil
		if existing.Error != nil && !errors.Is(existing.Error, gorm.ErrRecordNotFound) {
			return existing.Error
		}
		if found && enrollment.Status != models.EnrollmentDropped {
			return errAlreadyEnrolled
		}

		if enforceCapacity && course.Capacity > 0 {
			var taken int64
			if err := tx.Model(&models.Enrollment{}).
				Where("course_id = ? AND is_deleted = ? AND status IN ?", courseID, false,
					[]string{models.EnrollmentActive, models.EnrollmentCompleted}).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(course.Capacity) {
				return errCourseFull
			}
		}

		now := time.Now()
		if found {
			enrollment.Status = models.EnrollmentActive
			enrollment.EnrolledAt = now
			enrollment.CompletedAt = nil
			return tx.Model(&enrollment).Select("status", "enrolled_at", "completed_at").Updates(&enrollment).Error
		}

		enrollment = models.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			Status:     models.EnrollmentActive,
			EnrolledAt: now,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if utils.IsDuplicateKey(err) {
				return errAlreadyEnrolled
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated, _, err := updateEnrollmentProgress(userID, courseID); err == nil {
		return updated, nil
	}
	return &enrollment, nil
}

func enrollError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, errCourseNotPublished):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, errAlreadyEnrolled), errors.Is(err, errCourseFull):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	}
	log.Printf("Error enrolling: %v", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
}

// EnrollInCourse enrolls the current student
func EnrollInCourse(c *fiber.Ctx) error {
	userID, _ := session(c)
	courseID := validators.ID(c, "id")

	enrollment, err := enrollUser(courseID, userID, true, true)
	if err != nil {
		return enrollError(c, err)
	}

	if course, err := utils.FindCourse(courseID); err == nil {
		utils.Notify(userID, models.NotifyEnrollment, "Enrollment confirmed",
			"You are now enrolled in "+course.Title+".", "/courses/"+utils.FormatID(courseID))
	}
	utils.RecordAudit(c, utils.AuditEnroll, "enrollment", enrollment.ID, fiber.Map{"course_id": courseID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// DropCourse marks the current student's enrollment as DROPPED
func DropCourse(c *fiber.Ctx) error {
	userID, _ := session(c)
	courseID := validators.ID(c, "id")

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return notFoundOr500(c, err, "Enrollment")
	}
	switch enrollment.Status {
	case models.EnrollmentDropped:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment is already dropped!", nil)
	case models.EnrollmentCompleted:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A completed course cannot be dropped!", nil)
	}

	if err := database.Database.Db.Model(&enrollment).Update("status", models.EnrollmentDropped).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to drop course!", nil)
	}

	utils.RecordAudit(c, utils.AuditDrop, "enrollment", enrollment.ID, fiber.Map{"course_id": courseID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course dropped successfully!", enrollment)
}

// GetMyEnrollments lists the current user's enrollments with their courses
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, _ := session(c)
	page := validators.Page(c)

	query := database.Database.Db.Model(&models.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if status := strings.ToUpper(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var enrollments []models.Enrollment
	if err := query.Preload("Course").Preload("Course.Instructor").Order("enrolled_at desc").
		Offset(page.Offset).Limit(page.Limit).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination":  middleware.NewPagination(total, page.Page, page.Limit),
	})
}

// GetCourseEnrollments lists enrollments of a course for its managers
func GetCourseEnrollments(c *fiber.Ctx) error {
	userID, role := session(c)
	page := validators.Page(c)

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	query := database.Database.Db.Model(&models.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false)
	if status := strings.ToUpper(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var enrollments []models.Enrollment
	if err := query.Preload("User").Order("enrolled_at desc").
		Offset(page.Offset).Limit(page.Limit).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination":  middleware.NewPagination(total, page.Page, page.Limit),
	})
}

// ManagerEnroll enrolls a given student; admins bypass the capacity limit
func ManagerEnroll(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.ManualEnrollRequest](c, "validatedEnroll")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&student).Error; err != nil {
		return notFoundOr500(c, err, "User")
	}
	if student.Role != models.RoleStudent || !student.IsActive {
		return middleware.ValidationErrorResponse(c, map[string]string{"user_id": "Only active students can be enrolled!"})
	}

	enrollment, err := enrollUser(course.ID, student.ID, false, role != models.RoleAdmin)
	if err != nil {
		return enrollError(c, err)
	}

	utils.Notify(student.ID, models.NotifyEnrollment, "Enrollment confirmed",
		"You have been enrolled in "+course.Title+".", "/courses/"+utils.FormatID(course.ID))
	utils.RecordAudit(c, utils.AuditEnroll, "enrollment", enrollment.ID, fiber.Map{"course_id": course.ID, "user_id": student.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Student enrolled successfully!", enrollment)
}
