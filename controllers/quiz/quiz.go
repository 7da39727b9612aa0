package quizController

import (
	"errors"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPassingScore = 60
	defaultPoints       = 1
)

func session(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	return userID, role
}

func notFoundOr500(c *fiber.Ctx, err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, what+" not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch "+what+"!", nil)
}

func forbidden(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
}

func findQuiz(id uint) (*models.Quiz, *models.Course, error) {
	var quiz models.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&quiz).Error; err != nil {
		return nil, nil, err
	}
	course, err := utils.FindCourse(quiz.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &quiz, course, nil
}

func loadQuestions(quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc, id asc").Find(&questions).Error
	return questions, err
}

func checkModule(moduleID *uint, courseID uint) map[string]string {
	if moduleID == nil {
		return nil
	}
	var count int64
	database.Database.Db.Model(&models.Module{}).
		Where("id = ? AND course_id = ? AND is_deleted = ?", *moduleID, courseID, false).Count(&count)
	if count == 0 {
		return map[string]string{"module_id": "Module does not belong to this course!"}
	}
	return nil
}

func ListQuizzes(c *fiber.Ctx) error {
	userID, role := session(c)
	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}

	manager := utils.CanManageCourse(role, userID, course)
	if !manager {
		if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}
	}

	query := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false)
	if !manager {
		query = query.Where("is_published = ?", true)
	}
	var quizzes []models.Quiz
	if err := query.Order("id asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

func CreateQuiz(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[quizValidator.QuizRequest](c, "validatedQuiz")
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
	if errs := checkModule(reqData.ModuleID, course.ID); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	quiz := models.Quiz{
		CourseID:         course.ID,
		ModuleID:         reqData.ModuleID,
		Title:            reqData.Title,
		Description:      reqData.Description,
		TimeLimitMinutes: reqData.TimeLimitMinutes,
		MaxAttempts:      reqData.MaxAttempts,
		PassingScore:     defaultPassingScore,
		ShuffleQuestions: reqData.ShuffleQuestions,
		ShowResults:      true,
		IsPublished:      reqData.IsPublished,
		AvailableFrom:    reqData.AvailableFrom,
		AvailableUntil:   reqData.AvailableUntil,
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.ShowResults != nil {
		quiz.ShowResults = *reqData.ShowResults
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuizCreate, "quiz", quiz.ID, fiber.Map{"course_id": course.ID, "title": quiz.Title})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// GetQuiz returns questions with answers to managers, and attempt usage to students
func GetQuiz(c *fiber.Ctx) error {
	userID, role := session(c)
	quiz, course, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}

	if utils.CanManageCourse(role, userID, course) {
		questions, err := loadQuestions(quiz.ID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
		}
		quiz.Questions = questions
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
	}

	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil || !quiz.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questionCount, attemptsUsed int64
	database.Database.Db.Model(&models.QuizQuestion{}).Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Count(&questionCount)
	database.Database.Db.Model(&models.QuizAttempt{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).Count(&attemptsUsed)

	var remaining interface{}
	if quiz.MaxAttempts > 0 {
		left := int64(quiz.MaxAttempts) - attemptsUsed
		if left < 0 {
			left = 0
		}
		remaining = left
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":               quiz,
		"question_count":     questionCount,
		"attempts_used":      attemptsUsed,
		"attempts_remaining": remaining,
	})
}

func UpdateQuiz(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[quizValidator.UpdateQuizRequest](c, "validatedQuizUpdate")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz, course, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}
	if errs := checkModule(reqData.ModuleID, course.ID); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.Description != nil {
		quiz.Description = *reqData.Description
	}
	if reqData.ModuleID != nil {
		quiz.ModuleID = reqData.ModuleID
	}
	if reqData.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = *reqData.TimeLimitMinutes
	}
	if reqData.MaxAttempts != nil {
		quiz.MaxAttempts = *reqData.MaxAttempts
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *reqData.ShuffleQuestions
	}
	if reqData.ShowResults != nil {
		quiz.ShowResults = *reqData.ShowResults
	}
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}
	if reqData.AvailableFrom != nil {
		quiz.AvailableFrom = reqData.AvailableFrom
	}
	if reqData.AvailableUntil != nil {
		quiz.AvailableUntil = reqData.AvailableUntil
	}
	if quiz.AvailableFrom != nil && quiz.AvailableUntil != nil && !quiz.AvailableUntil.After(*quiz.AvailableFrom) {
		return middleware.ValidationErrorResponse(c, map[string]string{"available_until": "Availability end must be after its start!"})
	}

	if err := database.Database.Db.Omit("Questions").Save(quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuizUpdate, "quiz", quiz.ID, reqData)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	userID, role := session(c)
	quiz, course, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(quiz).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuizDelete, "quiz", quiz.ID, fiber.Map{"course_id": course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
