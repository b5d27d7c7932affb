package services

import (
	"errors"
	"strings"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
	"moneybot/internal/uow"
)

// userService handles user registration and lookup.
type userService struct {
	scope *uow.Scope
}

// NewUserService creates a new UserServicer.
func NewUserService(scope *uow.Scope) UserServicer {
	return &userService{scope: scope}
}

// RegisterUser creates the user for a chat. A chat can register only once.
func (s *userService) RegisterUser(name string, chatID int64) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "name is required")
	}

	user := &models.User{Name: name, ChatID: chatID}
	if err := s.scope.Users().Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Wrap(apperrors.ErrUserAlreadyExists, err)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByChatID retrieves the user registered for a chat.
func (s *userService) GetUserByChatID(chatID int64) (*models.User, error) {
	return s.scope.Users().GetByChatID(chatID)
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(userID int64) (*models.User, error) {
	return s.scope.Users().Get(userID, filter.Expression{})
}
