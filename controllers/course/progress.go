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

	"github.com/gofiber/fiber/v2"
)

// updateEnrollmentProgress recomputes progress from published lesson completions.
// justCompleted is true when this call moved the enrollment to COMPLETED.
func updateEnrollmentProgress(userID, courseID uint) (enrollment *models.Enrollment, justCompleted bool, err error) {
	db := database.Database.Db

	var e models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&e).Error; err != nil {
		return nil, false, err
	}

	var totalLessons, completedLessons int64
	if err := db.Model(&models.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons).Error; err != nil {
		return nil, false, err
	}
	publishedIDs := db.Model(&models.Lesson{}).Select("id").
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true)
	if err := db.Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND lesson_id IN (?)", userID, courseID, publishedIDs).
		Count(&completedLessons).Error; err != nil {
		return nil, false, err
	}

	e.TotalLessons = int(totalLessons)
	e.CompletedLessons = int(completedLessons)
	e.Progress = 0
	if totalLessons > 0 {
		e.Progress = roundTo2(float64(completedLessons) / float64(totalLessons) * 100)
	}

	if e.Status == models.EnrollmentActive && totalLessons > 0 && completedLessons >= totalLessons {
		now := time.Now()
		e.Status = models.EnrollmentCompleted
		e.CompletedAt = &now
		justCompleted = true
	}

	if err := db.Model(&e).Select("total_lessons", "completed_lessons", "progress", "status", "completed_at").
		Updates(&e).Error; err != nil {
		return nil, false, err
	}
	return &e, justCompleted, nil
}

// refreshCourseProgress recomputes every live enrollment of a course after its lesson set changed
func refreshCourseProgress(courseID uint) {
	var userIDs []uint
	database.Database.Db.Model(&models.Enrollment{}).
		Where("course_id = ? AND is_deleted = ? AND status <> ?", courseID, false, models.EnrollmentDropped).
		Pluck("user_id", &userIDs)

	for _, id := range userIDs {
		if _, _, err := updateEnrollmentProgress(id, courseID); err != nil {
			log.Printf("Error refreshing progress for user %d in course %d: %v", id, courseID, err)
		}
	}
}

type moduleProgress struct {
	ModuleID         uint    `json:"module_id"`
	Title            string  `json:"title"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	Progress         float64 `json:"progress"`
}

// GetCourseProgress returns the caller's module-wise progress in a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, _ := session(c)
	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}

	enrollment, err := utils.ActiveEnrollment(userID, course.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	db := database.Database.Db
	var modules []models.Module
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc, id asc").Find(&modules)

	var lessons []models.Lesson
	db.Select("id", "module_id").
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", course.ID, false, true).Find(&lessons)

	completedIDs := []uint{}
	db.Model(&models.LessonCompletion{}).Where("user_id = ? AND course_id = ?", userID, course.ID).Pluck("lesson_id", &completedIDs)
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	stats := make(map[uint]*moduleProgress, len(modules))
	result := make([]*moduleProgress, 0, len(modules))
	for _, m := range modules {
		p := &moduleProgress{ModuleID: m.ID, Title: m.Title}
		stats[m.ID] = p
		result = append(result, p)
	}
	for _, l := range lessons {
		p, ok := stats[l.ModuleID]
		if !ok {
			continue
		}
		p.TotalLessons++
		if completed[l.ID] {
			p.CompletedLessons++
		}
	}
	for _, p := range result {
		if p.TotalLessons > 0 {
			p.Progress = roundTo2(float64(p.CompletedLessons) / float64(p.TotalLessons) * 100)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":           enrollment,
		"modules":              result,
		"completed_lesson_ids": completedIDs,
	})
}
