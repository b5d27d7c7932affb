package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneybot/internal/ledger"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
)

// CreateTransactionRequest represents the request payload for a topup,
// withdrawal or purchase. Amounts are unsigned; the type decides the sign.
type CreateTransactionRequest struct {
	AccountID               int64            `json:"account_id" binding:"required,gt=0"`
	Amount                  decimal.Decimal  `json:"amount" binding:"required" swaggertype:"string"`
	Currency                string           `json:"currency" binding:"required"`
	AmountInAccountCurrency *decimal.Decimal `json:"amount_in_account_currency" swaggertype:"string"`
	Date                    *string          `json:"date" example:"2024-03-01"`
	Description             *string          `json:"description" binding:"omitempty,max=255"`
}

// CreateTransferRequest represents the request payload for a transfer.
type CreateTransferRequest struct {
	AccountID                 int64            `json:"account_id" binding:"required,gt=0"`
	AccountIDTo               int64            `json:"account_id_to" binding:"required,gt=0"`
	Amount                    decimal.Decimal  `json:"amount" binding:"required" swaggertype:"string"`
	Currency                  string           `json:"currency" binding:"required"`
	AmountInAccountCurrency   *decimal.Decimal `json:"amount_in_account_currency" swaggertype:"string"`
	AmountTo                  *decimal.Decimal `json:"amount_to" swaggertype:"string"`
	CurrencyTo                *string          `json:"currency_to"`
	AmountInAccountCurrencyTo *decimal.Decimal `json:"amount_in_account_currency_to" swaggertype:"string"`
	Date                      *string          `json:"date" example:"2024-03-01"`
	Description               *string          `json:"description" binding:"omitempty,max=255"`
}

// createFunc is one of the ledger's single-leg create operations.
type createFunc func(l ledger.Ledger, ctx context.Context, in services.TransactionInput) (*models.Transaction, error)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	ledger ledger.Ledger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(l ledger.Ledger) *TransactionHandler {
	return &TransactionHandler{ledger: l}
}

// CreateTopup records money coming into an account.
// @Summary     Create topup
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body CreateTransactionRequest true "Topup details"
// @Success     201 {object} map[string]models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /users/{user_id}/transactions/topup [post]
func (h *TransactionHandler) CreateTopup(c *gin.Context) {
	h.create(c, ledger.Ledger.CreateTopup)
}

// CreateWithdraw records money leaving an account.
// @Summary     Create withdrawal
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body CreateTransactionRequest true "Withdrawal details"
// @Success     201 {object} map[string]models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /users/{user_id}/transactions/withdraw [post]
func (h *TransactionHandler) CreateWithdraw(c *gin.Context) {
	h.create(c, ledger.Ledger.CreateWithdraw)
}

// CreatePurchase records a purchase paid from an account.
// @Summary     Create purchase
// @Description A purchase needs a description of what was bought
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body CreateTransactionRequest true "Purchase details"
// @Success     201 {object} map[string]models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Failure     422 {object} ErrorResponse "Missing description"
// @Router      /users/{user_id}/transactions/purchase [post]
func (h *TransactionHandler) CreatePurchase(c *gin.Context) {
	h.create(c, ledger.Ledger.CreatePurchase)
}

func (h *TransactionHandler) create(c *gin.Context, fn createFunc) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := fn(h.ledger, c.Request.Context(), services.TransactionInput{
		UserID:                  userID,
		AccountID:               req.AccountID,
		Amount:                  req.Amount,
		Currency:                req.Currency,
		AmountInAccountCurrency: req.AmountInAccountCurrency,
		Date:                    date,
		Description:             req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// CreateTransfer moves money between two accounts of the same user.
// @Summary     Create transfer
// @Description Books two linked legs; the returned transaction is the source leg
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} map[string]models.Transaction "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input or same account"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /users/{user_id}/transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID, err := parsePathID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledger.CreateTransfer(c.Request.Context(), services.TransferInput{
		UserID:                    userID,
		AccountID:                 req.AccountID,
		AccountIDTo:               req.AccountIDTo,
		Amount:                    req.Amount,
		Currency:                  req.Currency,
		AmountInAccountCurrency:   req.AmountInAccountCurrency,
		AmountTo:                  req.AmountTo,
		CurrencyTo:                req.CurrencyTo,
		AmountInAccountCurrencyTo: req.AmountInAccountCurrencyTo,
		Date:                      date,
		Description:               req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions lists a user's transactions across accounts.
// @Summary     List transactions
// @Description Newest first. Filter fields include account_name and user_id.
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       limit query int false "Page size (default 10, max 100)"
// @Param       offset query int false "Rows to skip"
// @Param       filter query string false "JSON filter expression"
// @Success     200 {object} pagination.Page[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /users/{user_id}/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
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

	txs, err := h.ledger.ListTransactions(c.Request.Context(), userID, f, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(txs, page))
}

// SearchTransactions lists a user's transactions matching a filter in the body.
// @Summary     Search transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       request body SearchRequest false "Filter and window"
// @Success     200 {object} pagination.Page[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /users/{user_id}/transactions/search [post]
func (h *TransactionHandler) SearchTransactions(c *gin.Context) {
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

	txs, err := h.ledger.ListTransactions(c.Request.Context(), userID, f, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(txs, page))
}

// GetTransaction returns one transaction of an account.
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       account_id path int true "Account ID"
// @Param       transaction_id path int true "Transaction ID"
// @Success     200 {object} map[string]models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /users/{user_id}/accounts/{account_id}/transactions/{transaction_id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	ids, err := parsePathIDs(c, "user_id", "account_id", "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledger.GetTransaction(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction reverses a transaction and every transaction linked to it.
// @Summary     Delete transaction
// @Description Soft-deletes the transaction and its transfer counterpart and restores balances
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       user_id path int true "User ID"
// @Param       account_id path int true "Account ID"
// @Param       transaction_id path int true "Transaction ID"
// @Success     200 {object} map[string][]models.Transaction "Removed transactions"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /users/{user_id}/accounts/{account_id}/transactions/{transaction_id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	ids, err := parsePathIDs(c, "user_id", "account_id", "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.ledger.DeleteTransaction(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": removed})
}
