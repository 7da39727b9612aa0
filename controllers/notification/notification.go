package notificationController

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ownNotifications(userID uint) *gorm.DB {
	return database.Database.Db.Model(&models.Notification{}).Where("user_id = ? AND is_deleted = ?", userID, false)
}

func ListNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	page := validators.Page(c)

	query := ownNotifications(userID)
	if unread := validators.QueryBool(c, "unread_only"); unread != nil && *unread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.Order("created_at desc, id desc").Offset(page.Offset).Limit(page.Limit).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"pagination":    middleware.NewPagination(total, page.Page, page.Limit),
	})
}

func UnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var count int64
	if err := ownNotifications(userID).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to count notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread count fetched successfully!", fiber.Map{"count": count})
}

func findOwn(c *fiber.Ctx) (*models.Notification, error) {
	userID := c.Locals("userId").(uint)
	var n models.Notification
	err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", validators.ID(c, "id"), userID, false).First(&n).Error
	return &n, err
}

func MarkRead(c *fiber.Ctx) error {
	n, err := findOwn(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notification!", nil)
	}

	if !n.IsRead {
		now := time.Now()
		if err := database.Database.Db.Model(n).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}
		n.IsRead = true
		n.ReadAt = &now
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", n)
}

func MarkAllRead(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	result := ownNotifications(userID).Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", fiber.Map{"updated": result.RowsAffected})
}

func DeleteNotification(c *fiber.Ctx) error {
	n, err := findOwn(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notification!", nil)
	}

	if err := database.Database.Db.Model(n).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification deleted successfully!", nil)
}

// Broadcast sends a SYSTEM notification to every active user, or to one role
func Broadcast(c *fiber.Ctx) error {
	reqData := validators.Body[notificationValidator.BroadcastRequest](c, "validatedBroadcast")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Model(&models.User{}).Where("is_active = ? AND is_deleted = ?", true, false)
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}

	var userIDs []uint
	if err := query.Pluck("id", &userIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recipients!", nil)
	}

	sent := utils.NotifyMany(userIDs, models.NotifySystem, reqData.Title, reqData.Message, reqData.Link)
	log.Printf("[NOTIFY] Broadcast %q delivered to %d users", reqData.Title, sent)

	utils.RecordAudit(c, utils.AuditBroadcast, "notification", 0, fiber.Map{
		"title": reqData.Title, "role": reqData.Role, "recipients": sent,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Broadcast sent successfully!", fiber.Map{"recipients": sent})
}
