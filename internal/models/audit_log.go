package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records every ledger mutation in the scope that made it.
type AuditLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64          `gorm:"not null;index" json:"user_id"`
	Action       string         `gorm:"size:50;not null" json:"action"`
	ResourceType string         `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   int64          `json:"resource_id"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
