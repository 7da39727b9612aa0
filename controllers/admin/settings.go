package adminController

import (
	"errors"
	"log"
	"sort"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	settingsValidator "lms/validators/settings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ListSettings(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := database.Database.Db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", settings)
}

// PublicSettings exposes is_public settings as a key/value map without authentication
func PublicSettings(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := database.Database.Db.Where("is_public = ?", true).Find(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", result)
}

func defaultSetting(key string) models.Setting {
	for _, s := range models.DefaultSettings {
		if s.Key == key {
			return s
		}
	}
	return models.Setting{Key: key}
}

// UpdateSettings upserts known keys in one transaction
func UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := validators.Body[settingsValidator.UpdateSettingsRequest](c, "validatedSettings")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	keys := make([]string, 0, len(reqData.Settings))
	for key := range reqData.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			value := reqData.Settings[key]
			var setting models.Setting
			err := tx.Where(&models.Setting{Key: key}).First(&setting).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				setting = defaultSetting(key)
				setting.Value = value
				setting.UpdatedBy = &userID
				if err := tx.Create(&setting).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&setting).Updates(map[string]interface{}{"value": value, "updated_by": userID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}

	utils.RecordAudit(c, utils.AuditSettingsUpdate, "setting", 0, reqData.Settings)

	var settings []models.Setting
	database.Database.Db.Where(map[string]interface{}{"key": keys}).Find(&settings)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated successfully!", settings)
}
