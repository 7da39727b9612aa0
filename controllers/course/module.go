package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListModules lists the modules of a course the caller can see
func ListModules(c *fiber.Ctx) error {
	userID, role := session(c)
	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if !utils.CanViewCourse(role, userID, course) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []models.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc, id asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

func CreateModule(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.ModuleRequest](c, "validatedModule")
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

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&models.Module{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  orderIndex,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	utils.RecordAudit(c, utils.AuditModuleCreate, "module", module.ID, fiber.Map{"course_id": course.ID, "title": module.Title})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func UpdateModule(c *fiber.Ctx) error {
	userID, role := session(c)
	reqData := validators.Body[courseValidator.UpdateModuleRequest](c, "validatedModuleUpdate")
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

	changes := map[string]interface{}{}
	if reqData.Title != nil {
		changes["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		changes["description"] = *reqData.Description
	}
	if reqData.OrderIndex != nil {
		changes["order_index"] = *reqData.OrderIndex
	}
	if len(changes) > 0 {
		if err := database.Database.Db.Model(module).Updates(changes).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
		utils.RecordAudit(c, utils.AuditModuleUpdate, "module", module.ID, changes)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule soft deletes a module and its lessons, then refreshes progress
func DeleteModule(c *fiber.Ctx) error {
	userID, role := session(c)
	module, course, err := findModule(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Module")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(module).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Lesson{}).Where("module_id = ?", module.ID).Update("is_deleted", true).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	refreshCourseProgress(course.ID)
	utils.RecordAudit(c, utils.AuditModuleDelete, "module", module.ID, fiber.Map{"course_id": course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
