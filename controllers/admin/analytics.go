package adminController

import (
	"errors"
	"math"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type groupCount struct {
	Label string
	Total int64
}

// countBy groups rows of model by column, zero-filling every expected label
func countBy(model interface{}, column string, labels []string, where string, args ...interface{}) map[string]int64 {
	result := make(map[string]int64, len(labels))
	for _, l := range labels {
		result[l] = 0
	}
	var rows []groupCount
	database.Database.Db.Model(model).Select(column+" AS label, COUNT(*) AS total").
		Where(where, args...).Group(column).Scan(&rows)
	for _, r := range rows {
		result[r.Label] = r.Total
	}
	return result
}

func count(model interface{}, where string, args ...interface{}) int64 {
	var n int64
	database.Database.Db.Model(model).Where(where, args...).Count(&n)
	return n
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Dashboard returns platform wide counters for admins
func Dashboard(c *fiber.Ctx) error {
	users := &models.User{}
	newSince := func(t time.Time) int64 {
		return count(users, "is_deleted = ? AND created_at >= ?", false, t)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"users_by_role": countBy(users, "role", models.ValidRoles, "is_deleted = ?", false),
		"courses_by_status": countBy(&models.Course{}, "status",
			[]string{models.CourseDraft, models.CoursePublished, models.CourseArchived}, "is_deleted = ?", false),
		"enrollments":         count(&models.Enrollment{}, "is_deleted = ? AND status <> ?", false, models.EnrollmentDropped),
		"completions":         count(&models.Enrollment{}, "is_deleted = ? AND status = ?", false, models.EnrollmentCompleted),
		"pending_submissions": count(&models.Submission{}, "is_deleted = ? AND status = ?", false, models.SubmissionSubmitted),
		"quiz_attempts":       count(&models.QuizAttempt{}, "1 = 1"),
		"suspicious_attempts": count(&models.QuizAttempt{}, "is_suspicious = ?", true),
		"new_users": fiber.Map{
			"today":      newSince(now.BeginningOfDay()),
			"this_week":  newSince(now.BeginningOfWeek()),
			"this_month": newSince(now.BeginningOfMonth()),
		},
	})
}

type assignmentStat struct {
	AssignmentID   uint    `json:"assignment_id"`
	Title          string  `json:"title"`
	Submissions    int64   `json:"submissions"`
	SubmissionRate float64 `json:"submission_rate"`
}

// CourseAnalytics summarizes enrollment, quiz and assignment outcomes for one course
func CourseAnalytics(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	if !utils.CanManageCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}

	db := database.Database.Db
	enrollments := &models.Enrollment{}
	enrolled := count(enrollments, "course_id = ? AND is_deleted = ? AND status <> ?", course.ID, false, models.EnrollmentDropped)
	completed := count(enrollments, "course_id = ? AND is_deleted = ? AND status = ?", course.ID, false, models.EnrollmentCompleted)

	var avgProgress float64
	db.Model(enrollments).Select("COALESCE(AVG(progress), 0)").
		Where("course_id = ? AND is_deleted = ? AND status <> ?", course.ID, false, models.EnrollmentDropped).
		Scan(&avgProgress)

	quizIDs := db.Model(&models.Quiz{}).Select("id").Where("course_id = ? AND is_deleted = ?", course.ID, false)
	submitted := db.Model(&models.QuizAttempt{}).Where("quiz_id IN (?) AND status = ?", quizIDs, models.AttemptSubmitted)

	var attempts, passed int64
	var avgQuiz float64
	submitted.Session(&gorm.Session{}).Count(&attempts)
	submitted.Session(&gorm.Session{}).Where("passed = ?", true).Count(&passed)
	submitted.Session(&gorm.Session{}).Select("COALESCE(AVG(percentage), 0)").Scan(&avgQuiz)

	var assignments []models.Assignment
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("due_date asc").Find(&assignments)
	stats := make([]assignmentStat, 0, len(assignments))
	for _, a := range assignments {
		n := count(&models.Submission{}, "assignment_id = ? AND is_deleted = ?", a.ID, false)
		stats = append(stats, assignmentStat{
			AssignmentID:   a.ID,
			Title:          a.Title,
			Submissions:    n,
			SubmissionRate: percent(n, enrolled),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course analytics fetched successfully!", fiber.Map{
		"course_id":               course.ID,
		"enrolled":                enrolled,
		"completed":               completed,
		"completion_rate":         percent(completed, enrolled),
		"average_progress":        round2(avgProgress),
		"quiz_attempts":           attempts,
		"average_quiz_percentage": round2(avgQuiz),
		"pass_rate":               percent(passed, attempts),
		"assignments":             stats,
	})
}

// MyAnalytics summarizes the caller's own learning
func MyAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	db := database.Database.Db

	enrollments := &models.Enrollment{}
	enrolled := count(enrollments, "user_id = ? AND is_deleted = ? AND status <> ?", userID, false, models.EnrollmentDropped)
	completed := count(enrollments, "user_id = ? AND is_deleted = ? AND status = ?", userID, false, models.EnrollmentCompleted)

	var avgQuiz float64
	db.Model(&models.QuizAttempt{}).Select("COALESCE(AVG(percentage), 0)").
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).Scan(&avgQuiz)

	activeCourses := db.Model(enrollments).Select("course_id").
		Where("user_id = ? AND is_deleted = ? AND status = ?", userID, false, models.EnrollmentActive)
	submittedIDs := db.Model(&models.Submission{}).Select("assignment_id").
		Where("user_id = ? AND is_deleted = ?", userID, false)

	var pending int64
	db.Model(&models.Assignment{}).
		Where("course_id IN (?) AND is_published = ? AND is_deleted = ?", activeCourses, true, false).
		Where("id NOT IN (?)", submittedIDs).
		Where("(due_date >= ? OR allow_late = ?)", time.Now(), true).
		Count(&pending)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"enrollments":         enrolled,
		"completed_courses":   completed,
		"average_quiz_score":  round2(avgQuiz),
		"pending_assignments": pending,
	})
}
