package assignmentController

import (
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	assignmentValidator "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitAssignment stores or replaces the caller's submission until it is graded
func SubmitAssignment(c *fiber.Ctx) error {
	userID, _ := session(c)
	reqData := validators.Body[assignmentValidator.SubmitRequest](c, "validatedSubmission")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	assignment, course, err := findAssignment(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}
	if !assignment.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	now := time.Now()
	isLate := now.After(assignment.DueDate)
	if isLate && !assignment.AllowLate {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The deadline for this assignment has passed!", nil)
	}

	db := database.Database.Db
	var submission models.Submission
	err = db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignment.ID, userID, false).First(&submission).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submission!", nil)
	}
	if exists && submission.Status == models.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This submission has already been graded!", nil)
	}

	fileURL := ""
	if file, err := c.FormFile("file"); err == nil {
		name, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			if errors.Is(err, utils.ErrFileTooLarge) || errors.Is(err, utils.ErrFileTypeInvalid) {
				return middleware.ValidationErrorResponse(c, map[string]string{"file": err.Error()})
			}
			log.Printf("Error saving upload: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store file!", nil)
		}
		fileURL = utils.GetFileURL(name)
	}

	content := strings.TrimSpace(reqData.Content)
	if content == "" && fileURL == "" && !(exists && (submission.Content != "" || submission.FileURL != "")) {
		return middleware.ValidationErrorResponse(c, map[string]string{"content": "Provide content or a file!"})
	}

	if content != "" {
		submission.Content = content
	}
	if fileURL != "" {
		submission.FileURL = fileURL
	}
	submission.SubmittedAt = now
	submission.IsLate = isLate
	submission.Status = models.SubmissionSubmitted

	status := fiber.StatusOK
	if exists {
		err = db.Save(&submission).Error
	} else {
		submission.AssignmentID = assignment.ID
		submission.UserID = userID
		err = db.Create(&submission).Error
		status = fiber.StatusCreated
	}
	if err != nil {
		log.Printf("Error saving submission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	utils.RecordAudit(c, utils.AuditSubmit, "submission", submission.ID, fiber.Map{
		"assignment_id": assignment.ID, "is_late": isLate, "resubmission": exists,
	})

	return middleware.JsonResponse(c, status, true, "Assignment submitted successfully!", submission)
}

func ListSubmissions(c *fiber.Ctx) error {
	userID, role := session(c)
	page := validators.Page(c)

	assignment, course, err := findAssignment(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}

	query := database.Database.Db.Model(&models.Submission{}).Where("assignment_id = ? AND is_deleted = ?", assignment.ID, false)
	if status := strings.ToUpper(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var submissions []models.Submission
	if err := query.Preload("User").Order("submitted_at desc").
		Offset(page.Offset).Limit(page.Limit).Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions": submissions,
		"pagination":  middleware.NewPagination(total, page.Page, page.Limit),
	})
}

func GetMySubmission(c *fiber.Ctx) error {
	userID, _ := session(c)

	var submission models.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?",
		validators.ID(c, "id"), userID, false).First(&submission).Error; err != nil {
		return notFoundOr500(c, err, "Submission")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", submission)
}

// LatePenaltyScore applies the assignment's late penalty to a raw score
func LatePenaltyScore(score float64, late bool, penaltyPercent float64) float64 {
	if !late || penaltyPercent <= 0 {
		return score
	}
	return math.Round(score*(1-penaltyPercent/100)*100) / 100
}

func GradeSubmission(c *fiber.Ctx) error {
	graderID, role := session(c)
	reqData := validators.Body[assignmentValidator.GradeRequest](c, "validatedGrade")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var submission models.Submission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "id"), false).First(&submission).Error; err != nil {
		return notFoundOr500(c, err, "Submission")
	}
	assignment, course, err := findAssignment(submission.AssignmentID)
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}
	if !utils.CanManageCourse(role, graderID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}
	if *reqData.Score > assignment.MaxScore {
		return middleware.ValidationErrorResponse(c, map[string]string{"score": "Score cannot exceed the maximum score!"})
	}

	finalScore := LatePenaltyScore(*reqData.Score, submission.IsLate, assignment.LatePenalty)
	now := time.Now()
	submission.Score = &finalScore
	submission.Feedback = reqData.Feedback
	submission.Status = models.SubmissionGraded
	submission.GradedBy = &graderID
	submission.GradedAt = &now

	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	utils.Notify(submission.UserID, models.NotifyGrade, "Assignment graded",
		"Your submission for "+assignment.Title+" was graded.", "/assignments/"+utils.FormatID(assignment.ID))
	utils.RecordAudit(c, utils.AuditGrade, "submission", submission.ID, fiber.Map{
		"raw_score": *reqData.Score, "score": finalScore, "is_late": submission.IsLate,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
