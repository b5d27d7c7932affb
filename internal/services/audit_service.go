package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"moneybot/internal/logger"
	"moneybot/internal/models"
	"moneybot/internal/uow"
)

// auditService handles audit log recording.
type auditService struct {
	scope *uow.Scope
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(scope *uow.Scope) AuditServicer {
	return &auditService{scope: scope}
}

// Log stages an audit entry in the same scope as the change it describes,
// so the entry commits or rolls back with it.
func (s *auditService) Log(userID int64, action, resourceType string, resourceID int64, changes map[string]any) error {
	var payload datatypes.JSON
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			data = []byte("{}")
		}
		payload = datatypes.JSON(data)
	}

	return s.scope.Audit().Create(&models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      payload,
	})
}
