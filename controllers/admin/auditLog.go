package adminController

import (
	"strconv"
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// ListAuditLogs filters the append-only audit trail, newest first
func ListAuditLogs(c *fiber.Ctx) error {
	page := validators.Page(c)
	query := database.Database.Db.Model(&models.AuditLog{})

	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"user_id": "User id must be a number!"})
		}
		query = query.Where("user_id = ?", uint(id))
	}
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType := strings.TrimSpace(c.Query("entity_type")); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if c.Query("from") != "" {
		from := validators.QueryTime(c, "from")
		if from == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"from": "Use YYYY-MM-DD or RFC3339!"})
		}
		query = query.Where("created_at >= ?", *from)
	}
	if raw := c.Query("to"); raw != "" {
		to := validators.QueryTime(c, "to")
		if to == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"to": "Use YYYY-MM-DD or RFC3339!"})
		}
		end := *to
		// a bare date includes the whole day
		if len(strings.TrimSpace(raw)) == len("2006-01-02") {
			end = now.With(end).EndOfDay()
		}
		query = query.Where("created_at <= ?", end)
	}

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Order("created_at desc, id desc").Offset(page.Offset).Limit(page.Limit).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit logs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit logs fetched successfully!", fiber.Map{
		"logs":       logs,
		"pagination": middleware.NewPagination(total, page.Page, page.Limit),
	})
}
