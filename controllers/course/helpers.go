package controllers

import (
	"errors"
	"math"

	"lms/database"
	"lms/middleware"
	"lms/models"

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

func forbidden(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// findModule loads a live module together with its live course
func findModule(id uint) (*models.Module, *models.Course, error) {
	var module models.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&module).Error; err != nil {
		return nil, nil, err
	}
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return nil, nil, err
	}
	return &module, &course, nil
}

func findLesson(id uint) (*models.Lesson, *models.Course, error) {
	var lesson models.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&lesson).Error; err != nil {
		return nil, nil, err
	}
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return nil, nil, err
	}
	return &lesson, &course, nil
}
