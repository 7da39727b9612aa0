package utils

import (
	"log"

	"lms/database"
	"lms/models"
)

// emailedTypes are the notification types that are also sent by email
var emailedTypes = map[string]bool{
	models.NotifyGrade:       true,
	models.NotifyCertificate: true,
	models.NotifySystem:      true,
}

// Notify stores a notification for one user and fans it out to email and webhook
func Notify(userID uint, notifyType, title, message, link string) *models.Notification {
	n := models.Notification{
		UserID:  userID,
		Type:    notifyType,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := database.Database.Db.Create(&n).Error; err != nil {
		log.Printf("[NOTIFY] Failed to store notification for user %d: %v", userID, err)
		return nil
	}

	if emailedTypes[notifyType] && MailConfigured() {
		var user models.User
		if err := database.Database.Db.Select("id", "name", "email").First(&user, userID).Error; err == nil {
			go func(name, email string) {
				if err := SendNotificationEmail(name, email, title, message); err != nil {
					log.Printf("[MAIL] Failed to email %s: %v", email, err)
				}
			}(user.Name, user.Email)
		}
	}

	DispatchWebhook(WebhookEvent{
		Event:   "notification." + notifyType,
		Title:   title,
		Message: message,
		UserID:  userID,
	})

	return &n
}

// NotifyMany stores the same notification for every user in one batch insert
func NotifyMany(userIDs []uint, notifyType, title, message, link string) int {
	if len(userIDs) == 0 {
		return 0
	}
	rows := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.Notification{
			UserID:  id,
			Type:    notifyType,
			Title:   title,
			Message: message,
			Link:    link,
		})
	}
	if err := database.Database.Db.CreateInBatches(&rows, 200).Error; err != nil {
		log.Printf("[NOTIFY] Failed to store %d notifications: %v", len(rows), err)
		return 0
	}

	DispatchWebhook(WebhookEvent{
		Event:   "notification." + notifyType + ".batch",
		Title:   title,
		Message: message,
	})
	return len(rows)
}
