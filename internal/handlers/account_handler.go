package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneybot/internal/ledger"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	ledger ledger.Ledger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(l ledger.Ledger) *AccountHandler {
	return &AccountHandler{ledger: l}
}

// CreateAccountRequest represents the request payload for creating an account.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=50"`
	Description    *string         `json:"description" binding:"omitempty,max=255"`
	Currency       string          `json:"currency" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance" swaggertype:"string"`
}

// UpdateAccountRequest represents the request payload for updating an account.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// BalanceResponse is the summed balance of a user's accounts.
type BalanceResponse struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance" swaggertype:"string"`
}

// VerifyResponse lists accounts whose cached balance has drifted.
type VerifyResponse struct {
	Consistent bool                    `json:"consistent"`
	Drifts     []services.BalanceDrift `json:"drifts"`
}

// CreateAccount creates an account for a user.
// @Summary     Create account
// @Description Create an account; a non-zero initial balance is booked as a topup or withdrawal
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} map[string]models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User or currency not found"
// @Failure     409 {object} ErrorResponse "Account name already used"
// @Router      /users/{user_id}/accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledger.CreateAccount(c.Request.Context(), services.CreateAccountInput{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts lists a user's accounts.
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       limit query int false "Page size (default 10, max 100)"
// @Param       offset query int false "Rows to skip"
// @Param       filter query string false "JSON filter expression"
// @Success     200 {object} pagination.Page[models.Account]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /users/{user_id}/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	f, page, err := bindListQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.ledger.ListAccounts(c.Request.Context(), userID, f, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(accounts, page))
}

// SearchAccounts lists a user's accounts matching a filter in the body.
// @Summary     Search accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body SearchRequest false "Filter and window"
// @Success     200 {object} pagination.Page[models.Account]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /users/{user_id}/accounts/search [post]
func (h *AccountHandler) SearchAccounts(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	f, page, err := bindSearch(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.ledger.ListAccounts(c.Request.Context(), userID, f, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(accounts, page))
}

// GetAccount returns one of a user's accounts.
// @Summary     Get account
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       account_id path int true "Account ID"
// @Success     200 {object} map[string]models.Account "Account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /users/{user_id}/accounts/{account_id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	ids, err := parsePathIDs(c, "user_id", "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledger.GetAccount(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount renames an account or changes its description.
// @Summary     Update account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       account_id path int true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to change"
// @Success     200 {object} map[string]models.Account "Account updated"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Account name already used"
// @Router      /users/{user_id}/accounts/{account_id} [patch]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	ids, err := parsePathIDs(c, "user_id", "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledger.UpdateAccount(c.Request.Context(), ids[0], ids[1], services.AccountUpdateFields{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeactivateAccount closes an account for new transactions.
// @Summary     Deactivate account
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       account_id path int true "Account ID"
// @Success     200 {object} map[string]models.Account "Account deactivated"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /users/{user_id}/accounts/{account_id}/deactivate [post]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	ids, err := parsePathIDs(c, "user_id", "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledger.DeactivateAccount(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// GetUserBalance sums the cached balances of all of a user's accounts.
// @Summary     Get user balance
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Success     200 {object} BalanceResponse
// @Router      /users/{user_id}/balance [get]
func (h *AccountHandler) GetUserBalance(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.ledger.GetUserBalance(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// VerifyBalances compares cached account balances with their transactions.
// @Summary     Verify balances
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Success     200 {object} VerifyResponse
// @Router      /users/{user_id}/balance/verify [get]
func (h *AccountHandler) VerifyBalances(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	drifts, err := h.ledger.VerifyBalances(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if drifts == nil {
		drifts = []services.BalanceDrift{}
	}

	c.JSON(http.StatusOK, VerifyResponse{Consistent: len(drifts) == 0, Drifts: drifts})
}
