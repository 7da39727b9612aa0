package controllers

import (
	"errors"
	"log"
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type catalogPage struct {
	Courses    []models.Course       `json:"courses"`
	Pagination middleware.Pagination `json:"pagination"`
}

// GetAllCourses lists the catalog visible to the caller
func GetAllCourses(c *fiber.Ctx) error {
	userID, role := session(c)
	page := validators.Page(c)

	search := strings.TrimSpace(c.Query("search"))
	category := strings.TrimSpace(c.Query("category"))
	status := strings.ToUpper(c.Query("status"))

	// Students only ever see the published catalog, so that shape is cacheable
	cacheable := role == models.RoleStudent && (status == "" || status == models.CoursePublished)
	cacheKey := utils.CatalogKey(search, category, page.Page, page.Limit)
	if cacheable {
		var cached catalogPage
		if utils.CatalogCacheGet(cacheKey, &cached) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", cached)
		}
	}

	query := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)
	switch role {
	case models.RoleAdmin:
	case models.RoleInstructor:
		query = query.Where("(status = ? OR instructor_id = ?)", models.CoursePublished, userID)
	default:
		query = query.Where("status = ?", models.CoursePublished)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(code) LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []models.Course
	if err := query.Preload("Instructor").Order("created_at desc").
		Offset(page.Offset).Limit(page.Limit).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := catalogPage{Courses: courses, Pagination: middleware.NewPagination(total, page.Page, page.Limit)}
	if cacheable {
		utils.CatalogCacheSet(cacheKey, result)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

type moduleWithLessons struct {
	models.Module
	Lessons []models.Lesson `json:"lessons"`
}

// GetCourseDetails returns a course with its modules and visible lessons
func GetCourseDetails(c *fiber.Ctx) error {
	userID, role := session(c)

	var course models.Course
	if err := database.Database.Db.Preload("Instructor").
		Where("id = ? AND is_deleted = ?", validators.ID(c, "id"), false).First(&course).Error; err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanViewCourse(role, userID, &course) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	manager := utils.CanManageCourse(role, userID, &course)

	var modules []models.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc, id asc").Find(&modules)

	lessonQuery := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false)
	if !manager {
		lessonQuery = lessonQuery.Where("is_published = ?", true)
	}
	var lessons []models.Lesson
	lessonQuery.Order("order_index asc, id asc").Find(&lessons)

	byModule := make(map[uint][]models.Lesson)
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}
	result := make([]moduleWithLessons, 0, len(modules))
	for _, m := range modules {
		ls := byModule[m.ID]
		if ls == nil {
			ls = []models.Lesson{}
		}
		result = append(result, moduleWithLessons{Module: m, Lessons: ls})
	}

	var enrollment *models.Enrollment
	if e, err := utils.ActiveEnrollment(userID, course.ID); err == nil {
		enrollment = e
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"modules":     result,
		"is_manager":  manager,
		"is_enrolled": enrollment != nil,
		"enrollment":  enrollment,
	})
}

func CreateCourse(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.CreateCourseRequest](c, "validatedCourse")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	instructorID := userID
	if role == models.RoleAdmin && reqData.InstructorID != nil {
		if err := checkInstructor(*reqData.InstructorID); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"instructor_id": err.Error()})
		}
		instructorID = *reqData.InstructorID
	}

	code := reqData.Code
	if code == "" {
		code = "C" + strings.ToUpper(uuid.NewString()[:8])
	}
	db := database.Database.Db
	if err := db.Where("code = ?", code).First(&models.Course{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course code already exists!", nil)
	}

	course := models.Course{
		Title:         reqData.Title,
		Code:          code,
		Description:   reqData.Description,
		Category:      reqData.Category,
		InstructorID:  instructorID,
		Status:        models.CourseDraft,
		Capacity:      reqData.Capacity,
		DurationHours: reqData.DurationHours,
		ThumbnailURL:  reqData.ThumbnailURL,
		StartDate:     reqData.StartDate,
		EndDate:       reqData.EndDate,
	}
	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	utils.InvalidateCatalog()
	utils.RecordAudit(c, utils.AuditCourseCreate, "course", course.ID, fiber.Map{"title": course.Title, "code": course.Code})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func checkInstructor(id uint) error {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		return errors.New("Instructor not found!")
	}
	if user.Role != models.RoleInstructor && user.Role != models.RoleAdmin {
		return errors.New("User is not an instructor!")
	}
	return nil
}

func UpdateCourse(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.UpdateCourseRequest](c, "validatedCourseUpdate")
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

	changes := map[string]interface{}{}
	if reqData.Title != nil {
		changes["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		changes["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		changes["category"] = *reqData.Category
	}
	if reqData.Status != nil {
		changes["status"] = *reqData.Status
		changes["is_published"] = *reqData.Status == models.CoursePublished
	}
	if reqData.Capacity != nil {
		changes["capacity"] = *reqData.Capacity
	}
	if reqData.DurationHours != nil {
		changes["duration_hours"] = *reqData.DurationHours
	}
	if reqData.ThumbnailURL != nil {
		changes["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.StartDate != nil {
		changes["start_date"] = *reqData.StartDate
	}
	if reqData.EndDate != nil {
		changes["end_date"] = *reqData.EndDate
	}
	if reqData.InstructorID != nil {
		if role != models.RoleAdmin {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can reassign a course!", nil)
		}
		if err := checkInstructor(*reqData.InstructorID); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"instructor_id": err.Error()})
		}
		changes["instructor_id"] = *reqData.InstructorID
	}

	start, end := course.StartDate, course.EndDate
	if reqData.StartDate != nil {
		start = reqData.StartDate
	}
	if reqData.EndDate != nil {
		end = reqData.EndDate
	}
	if start != nil && end != nil && end.Before(*start) {
		return middleware.ValidationErrorResponse(c, map[string]string{"end_date": "End date must be after start date!"})
	}

	if len(changes) > 0 {
		if err := database.Database.Db.Model(course).Updates(changes).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
		utils.InvalidateCatalog()
		utils.RecordAudit(c, utils.AuditCourseUpdate, "course", course.ID, changes)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	userID, role := session(c)
	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(course).Updates(map[string]interface{}{
		"is_deleted":   true,
		"is_published": false,
		"status":       models.CourseArchived,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	utils.InvalidateCatalog()
	utils.RecordAudit(c, utils.AuditCourseDelete, "course", course.ID, fiber.Map{"title": course.Title})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func PublishCourse(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.PublishRequest](c, "validatedPublish")
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

	status := models.CourseDraft
	if *reqData.IsPublished {
		status = models.CoursePublished
	}
	if err := database.Database.Db.Model(course).Updates(map[string]interface{}{
		"is_published": *reqData.IsPublished,
		"status":       status,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	utils.InvalidateCatalog()
	utils.RecordAudit(c, utils.AuditCoursePublish, "course", course.ID, fiber.Map{"is_published": *reqData.IsPublished})

	message := "Course unpublished successfully!"
	if *reqData.IsPublished {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}
