package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// Audit actions
const (
	AuditRegister          = "user.register"
	AuditLogin             = "auth.login"
	AuditLoginFailed       = "auth.login_failed"
	AuditLogout            = "auth.logout"
	AuditPasswordChange    = "auth.password_change"
	AuditUserCreate        = "user.create"
	AuditUserUpdate        = "user.update"
	AuditUserDelete        = "user.delete"
	AuditProfileUpdate     = "user.profile_update"
	AuditCourseCreate      = "course.create"
	AuditCourseUpdate      = "course.update"
	AuditCourseDelete      = "course.delete"
	AuditCoursePublish     = "course.publish"
	AuditModuleCreate      = "module.create"
	AuditModuleUpdate      = "module.update"
	AuditModuleDelete      = "module.delete"
	AuditLessonCreate      = "lesson.create"
	AuditLessonUpdate      = "lesson.update"
	AuditLessonDelete      = "lesson.delete"
	AuditEnroll            = "enrollment.create"
	AuditDrop              = "enrollment.drop"
	AuditAssignmentCreate  = "assignment.create"
	AuditAssignmentUpdate  = "assignment.update"
	AuditAssignmentDelete  = "assignment.delete"
	AuditSubmit            = "submission.create"
	AuditGrade             = "submission.grade"
	AuditQuizCreate        = "quiz.create"
	AuditQuizUpdate        = "quiz.update"
	AuditQuizDelete        = "quiz.delete"
	AuditQuestionCreate    = "question.create"
	AuditQuestionUpdate    = "question.update"
	AuditQuestionDelete    = "question.delete"
	AuditAttemptSubmit     = "attempt.submit"
	AuditForumCreate       = "forum.create"
	AuditForumDelete       = "forum.delete"
	AuditThreadModerate    = "thread.moderate"
	AuditThreadDelete      = "thread.delete"
	AuditThreadCreate      = "thread.create"
	AuditReplyCreate       = "reply.create"
	AuditReplyDelete       = "reply.delete"
	AuditLessonComplete    = "lesson.complete"
	AuditCertificateIssue  = "certificate.issue"
	AuditCertificateRevoke = "certificate.revoke"
	AuditBroadcast         = "notification.broadcast"
	AuditSettingsUpdate    = "settings.update"
	AuditBackupCreate      = "backup.create"
)

// RecordAudit appends an audit row attributed to the current session user
func RecordAudit(c *fiber.Ctx, action, entityType string, entityID uint, details interface{}) {
	var actor *uint
	if id, ok := c.Locals("userId").(uint); ok {
		actor = &id
	}
	RecordAuditFor(c, actor, action, entityType, entityID, details)
}

// RecordAuditFor appends an audit row for an explicit actor (nil for anonymous).
// Failures are logged and never abort the request.
func RecordAuditFor(c *fiber.Ctx, actor *uint, action, entityType string, entityID uint, details interface{}) {
	entry := models.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
	if c != nil {
		entry.IPAddress = c.IP()
		entry.UserAgent = c.Get(fiber.HeaderUserAgent)
	}
	if details != nil {
		raw, err := sonic.Marshal(details)
		if err != nil {
			log.Printf("[AUDIT] Failed to encode details for %s: %v", action, err)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] Failed to record %s on %s #%d: %v", action, entityType, entityID, err)
	}
}
