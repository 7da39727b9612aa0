package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a mutating action.
// It has no UpdatedAt/DeletedAt on purpose: rows are never changed.
type AuditLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     *uint          `json:"user_id" gorm:"index"`
	Action     string         `json:"action" gorm:"size:100;index;not null"`
	EntityType string         `json:"entity_type" gorm:"size:50;index"`
	EntityID   uint           `json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `json:"ip_address" gorm:"size:64"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}
