package assignmentController

import (
	"errors"
	"log"
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	assignmentValidator "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
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

func findAssignment(id uint) (*models.Assignment, *models.Course, error) {
	var assignment models.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&assignment).Error; err != nil {
		return nil, nil, err
	}
	course, err := utils.FindCourse(assignment.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &assignment, course, nil
}

// checkModule makes sure an optional module id belongs to the course
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

func ListAssignments(c *fiber.Ctx) error {
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
	var assignments []models.Assignment
	if err := query.Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}

func CreateAssignment(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[assignmentValidator.AssignmentRequest](c, "validatedAssignment")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}
	if errs := checkModule(reqData.ModuleID, course.ID); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	assignment := models.Assignment{
		CourseID:    course.ID,
		ModuleID:    reqData.ModuleID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueDate:     reqData.DueDate,
		MaxScore:    reqData.MaxScore,
		AllowLate:   reqData.AllowLate,
		LatePenalty: reqData.LatePenalty,
		IsPublished: reqData.IsPublished,
	}
	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		log.Printf("Error creating assignment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	if assignment.IsPublished {
		announce(course, &assignment)
	}
	utils.RecordAudit(c, utils.AuditAssignmentCreate, "assignment", assignment.ID, fiber.Map{"course_id": course.ID, "title": assignment.Title})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

func announce(course *models.Course, assignment *models.Assignment) {
	utils.NotifyMany(utils.EnrolledStudentIDs(course.ID), models.NotifyAssignment, "New assignment",
		assignment.Title+" was posted in "+course.Title+". Due "+assignment.DueDate.Format("2006-01-02 15:04")+".",
		"/assignments/"+utils.FormatID(assignment.ID))
}

func GetAssignment(c *fiber.Ctx) error {
	userID, role := session(c)
	assignment, course, err := findAssignment(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}

	if utils.CanManageCourse(role, userID, course) {
		var submitted, graded int64
		database.Database.Db.Model(&models.Submission{}).Where("assignment_id = ? AND is_deleted = ?", assignment.ID, false).Count(&submitted)
		database.Database.Db.Model(&models.Submission{}).Where("assignment_id = ? AND is_deleted = ? AND status = ?", assignment.ID, false, models.SubmissionGraded).Count(&graded)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", fiber.Map{
			"assignment":  assignment,
			"submissions": submitted,
			"graded":      graded,
		})
	}

	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil || !assignment.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submission *models.Submission
	var own models.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignment.ID, userID, false).
		First(&own).Error; err == nil {
		submission = &own
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", fiber.Map{
		"assignment": assignment,
		"submission": submission,
	})
}

func UpdateAssignment(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[assignmentValidator.UpdateAssignmentRequest](c, "validatedAssignmentUpdate")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	assignment, course, err := findAssignment(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}
	if errs := checkModule(reqData.ModuleID, course.ID); errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}

	wasPublished := assignment.IsPublished
	if reqData.Title != nil {
		assignment.Title = strings.TrimSpace(*reqData.Title)
	}
	if reqData.Description != nil {
		assignment.Description = *reqData.Description
	}
	if reqData.ModuleID != nil {
		assignment.ModuleID = reqData.ModuleID
	}
	if reqData.DueDate != nil {
		assignment.DueDate = *reqData.DueDate
		assignment.ReminderSent = false
	}
	if reqData.MaxScore != nil {
		assignment.MaxScore = *reqData.MaxScore
	}
	if reqData.AllowLate != nil {
		assignment.AllowLate = *reqData.AllowLate
	}
	if reqData.LatePenalty != nil {
		assignment.LatePenalty = *reqData.LatePenalty
	}
	if reqData.IsPublished != nil {
		assignment.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	if !wasPublished && assignment.IsPublished {
		announce(course, assignment)
	}
	utils.RecordAudit(c, utils.AuditAssignmentUpdate, "assignment", assignment.ID, reqData)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}

func DeleteAssignment(c *fiber.Ctx) error {
	userID, role := session(c)
	assignment, course, err := findAssignment(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Assignment")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}

	if err := database.Database.Db.Model(assignment).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}

	utils.RecordAudit(c, utils.AuditAssignmentDelete, "assignment", assignment.ID, fiber.Map{"course_id": course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment deleted successfully!", nil)
}
