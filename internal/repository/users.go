package repository

import (
	"gorm.io/gorm"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
)

var userWhitelist = filter.Whitelist{
	"id":       filter.Local("id", filter.TypeInt),
	"name":     filter.Local("name", filter.TypeString),
	"username": filter.Local("name", filter.TypeString),
	"chat_id":  filter.Local("chat_id", filter.TypeInt),
}

// UserRepository stores users.
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a UserRepository bound to db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{New[models.User](db, Options{
		Whitelist: userWhitelist,
		NotFound:  apperrors.ErrUserNotFound,
	})}
}

// GetByChatID returns the user registered for a chat.
func (r *UserRepository) GetByChatID(chatID int64) (*models.User, error) {
	return r.FindOne(filter.Where("chat_id", filter.OpEq, chatID))
}
