package quizController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func findQuestion(id uint) (*models.QuizQuestion, *models.Course, error) {
	var question models.QuizQuestion
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&question).Error; err != nil {
		return nil, nil, err
	}
	_, course, err := findQuiz(question.QuizID)
	if err != nil {
		return nil, nil, err
	}
	return &question, course, nil
}

func CreateQuestion(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[quizValidator.QuestionRequest](c, "validatedQuestion")
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

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&models.QuizQuestion{}).
			Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	question := models.QuizQuestion{
		QuizID:         quiz.ID,
		QuestionText:   reqData.QuestionText,
		QuestionType:   reqData.QuestionType,
		Options:        reqData.Options,
		CorrectAnswers: reqData.CorrectAnswers,
		Points:         defaultPoints,
		OrderIndex:     orderIndex,
		Explanation:    reqData.Explanation,
	}
	if reqData.Points != nil {
		question.Points = *reqData.Points
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuestionCreate, "question", question.ID, fiber.Map{"quiz_id": quiz.ID, "type": question.QuestionType})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", question)
}

// UpdateQuestion merges the changes and re-checks the options/answers shape
func UpdateQuestion(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[quizValidator.UpdateQuestionRequest](c, "validatedQuestionUpdate")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question, course, err := findQuestion(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Question")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	if reqData.QuestionText != nil {
		question.QuestionText = *reqData.QuestionText
	}
	if reqData.QuestionType != nil {
		question.QuestionType = *reqData.QuestionType
	}
	if reqData.Options != nil {
		question.Options = reqData.Options
	}
	if reqData.CorrectAnswers != nil {
		question.CorrectAnswers = reqData.CorrectAnswers
	}
	if reqData.Points != nil {
		question.Points = *reqData.Points
	}
	if reqData.OrderIndex != nil {
		question.OrderIndex = *reqData.OrderIndex
	}
	if reqData.Explanation != nil {
		question.Explanation = *reqData.Explanation
	}

	switch question.QuestionType {
	case models.QuestionTrueFalse:
		if len(question.Options) == 0 {
			question.Options = []string{"true", "false"}
		}
	case models.QuestionShortAnswer:
		question.Options = nil
	}
	if errs := utils.CheckQuestionShape(question.QuestionType, question.Options, question.CorrectAnswers); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	if err := database.Database.Db.Save(question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuestionUpdate, "question", question.ID, reqData)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	userID, role := session(c)
	question, course, err := findQuestion(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Question")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(question).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	utils.RecordAudit(c, utils.AuditQuestionDelete, "question", question.ID, fiber.Map{"quiz_id": question.QuizID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}
