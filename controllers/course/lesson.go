package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// canReadLessons is true for managers and for enrolled students
func canReadLessons(c *fiber.Ctx, course *models.Course) (manager bool, err error) {
	userID, role := session(c)
	if utils.CanManageCourse(role, userID, course) {
		return true, nil
	}
	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil {
		return false, err
	}
	return false, nil
}

func lessonAccessError(c *fiber.Ctx, err error) error {
	if errors.Is(err, utils.ErrNotEnrolled) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
}

func ListLessons(c *fiber.Ctx) error {
	module, course, err := findModule(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Module")
	}
	manager, err := canReadLessons(c, course)
	if err != nil {
		return lessonAccessError(c, err)
	}

	query := database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false)
	if !manager {
		query = query.Where("is_published = ?", true)
	}
	var lessons []models.Lesson
	if err := query.Order("order_index asc, id asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func GetLesson(c *fiber.Ctx) error {
	lesson, course, err := findLesson(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Lesson")
	}
	manager, err := canReadLessons(c, course)
	if err != nil {
		return lessonAccessError(c, err)
	}
	if !manager && !lesson.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	completed := false
	if !manager {
		userID, _ := session(c)
		var count int64
		database.Database.Db.Model(&models.LessonCompletion{}).
			Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).Count(&count)
		completed = count > 0
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson":    lesson,
		"completed": completed,
	})
}

func CreateLesson(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.LessonRequest](c, "validatedLesson")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, course, err := findModule(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Module")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&models.Lesson{}).
			Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	lesson := models.Lesson{
		CourseID:        course.ID,
		ModuleID:        module.ID,
		Title:           reqData.Title,
		ContentType:     reqData.ContentType,
		Content:         reqData.Content,
		MediaURL:        reqData.MediaURL,
		DurationMinutes: reqData.DurationMinutes,
		OrderIndex:      orderIndex,
		IsPublished:     reqData.IsPublished,
	}
	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	if lesson.IsPublished {
		refreshCourseProgress(course.ID)
	}
	utils.RecordAudit(c, utils.AuditLessonCreate, "lesson", lesson.ID, fiber.Map{"module_id": module.ID, "title": lesson.Title})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.UpdateLessonRequest](c, "validatedLessonUpdate")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, course, err := findLesson(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Lesson")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	wasPublished := lesson.IsPublished
	if reqData.Title != nil {
		lesson.Title = *reqData.Title
	}
	if reqData.ContentType != nil {
		lesson.ContentType = *reqData.ContentType
	}
	if reqData.Content != nil {
		lesson.Content = *reqData.Content
	}
	if reqData.MediaURL != nil {
		lesson.MediaURL = *reqData.MediaURL
	}
	if reqData.DurationMinutes != nil {
		lesson.DurationMinutes = *reqData.DurationMinutes
	}
	if reqData.OrderIndex != nil {
		lesson.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	if errs := courseValidator.CheckLessonContent(lesson.ContentType, lesson.Content, lesson.MediaURL); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	if err := database.Database.Db.Save(lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	if wasPublished != lesson.IsPublished {
		refreshCourseProgress(course.ID)
	}
	utils.RecordAudit(c, utils.AuditLessonUpdate, "lesson", lesson.ID, reqData)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	userID, role := session(c)
	lesson, course, err := findLesson(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Lesson")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(lesson).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	refreshCourseProgress(course.ID)
	utils.RecordAudit(c, utils.AuditLessonDelete, "lesson", lesson.ID, fiber.Map{"course_id": course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// MarkLessonComplete records a lesson completion and recomputes the enrollment progress
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, _ := session(c)

	lesson, course, err := findLesson(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Lesson")
	}
	if !lesson.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil {
		return lessonAccessError(c, err)
	}

	completion := models.LessonCompletion{UserID: userID, LessonID: lesson.ID, CourseID: course.ID}
	if err := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	enrollment, justCompleted, err := updateEnrollmentProgress(userID, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
	if justCompleted {
		utils.Notify(userID, models.NotifyEnrollment, "Course completed",
			"Congratulations! You have completed "+course.Title+".", "/courses/"+utils.FormatID(course.ID))
	}
	utils.RecordAudit(c, utils.AuditLessonComplete, "lesson", lesson.ID, fiber.Map{
		"course_id": course.ID, "progress": enrollment.Progress,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", enrollment)
}
