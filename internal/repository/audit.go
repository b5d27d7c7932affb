package repository

import (
	"gorm.io/gorm"

	"moneybot/internal/filter"
	"moneybot/internal/models"
)

var auditWhitelist = filter.Whitelist{
	"user_id":       filter.Local("user_id", filter.TypeInt),
	"action":        filter.Local("action", filter.TypeString),
	"resource_type": filter.Local("resource_type", filter.TypeString),
	"resource_id":   filter.Local("resource_id", filter.TypeInt),
	"created_at":    filter.Local("created_at", filter.TypeTime),
}

// AuditRepository appends audit log entries.
type AuditRepository struct {
	*Repository[models.AuditLog]
}

// NewAuditRepository creates an AuditRepository bound to db.
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{New[models.AuditLog](db, Options{Whitelist: auditWhitelist})}
}
