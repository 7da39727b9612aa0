package adminController

import (
	"errors"
	"log"
	"os"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBackup(c *fiber.Ctx) error {
	backup, err := utils.CreateBackup(database.Database.Db, database.AllModels(), config.AppConfig.BackupDir)
	if err != nil {
		log.Printf("[BACKUP] Manual backup failed: %v", err)
		utils.ReportError(err, map[string]interface{}{"operation": "backup"})
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create backup!", nil)
	}

	utils.RecordAudit(c, utils.AuditBackupCreate, "backup", 0, fiber.Map{"name": backup.Name, "size": backup.Size})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Backup created successfully!", backup)
}

func ListBackups(c *fiber.Ctx) error {
	backups, err := utils.ListBackups(config.AppConfig.BackupDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list backups!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Backups fetched successfully!", backups)
}

func DownloadBackup(c *fiber.Ctx) error {
	name := c.Params("name")
	path, err := utils.BackupPath(config.AppConfig.BackupDir, name)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidBackupName):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid backup name!", nil)
		case errors.Is(err, os.ErrNotExist):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Backup not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read backup!", nil)
	}
	return c.Download(path, name)
}
