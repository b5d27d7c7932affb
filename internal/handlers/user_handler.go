package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/ledger"
)

// UserHandler handles chat user registration and lookup.
type UserHandler struct {
	ledger ledger.Ledger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(l ledger.Ledger) *UserHandler {
	return &UserHandler{ledger: l}
}

// RegisterUserRequest represents the request payload for registering a user.
type RegisterUserRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=50"`
	ChatID int64  `json:"chat_id" binding:"required"`
}

// RegisterUser registers the user behind a chat.
// @Summary     Register a user
// @Description Register the user talking to the bot from a chat
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RegisterUserRequest true "User details"
// @Success     201 {object} map[string]models.User "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     409 {object} ErrorResponse "Chat already registered"
// @Router      /users [post]
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.ledger.RegisterUser(c.Request.Context(), ledger.RegisterUserInput{Name: req.Name, ChatID: req.ChatID})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUserByChatID looks up the user registered for a chat.
// @Summary     Get a user by chat
// @Tags        users
// @Produce     json
// @Security    ApiKeyAuth
// @Param       chat_id path int true "Chat ID"
// @Success     200 {object} map[string]models.User "User"
// @Failure     400 {object} ErrorResponse "Invalid chat ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/by-chat/{chat_id} [get]
func (h *UserHandler) GetUserByChatID(c *gin.Context) {
	// chat ids of group chats are negative
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid chat_id"))
		return
	}

	user, err := h.ledger.GetUserByChatID(c.Request.Context(), chatID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
