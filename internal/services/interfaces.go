package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneybot/internal/filter"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	RegisterUser(name string, chatID int64) (*models.User, error)
	GetUserByChatID(chatID int64) (*models.User, error)
	GetUser(userID int64) (*models.User, error)
}

// CurrencyServicer resolves free-text currency input against reference data.
type CurrencyServicer interface {
	FindCurrency(query string) (*models.Currency, error)
	ListCurrencies() ([]models.Currency, error)
}

// CreateAccountInput holds the fields for opening an account.
type CreateAccountInput struct {
	UserID         int64           `json:"user_id" validate:"required"`
	Name           string          `json:"name" validate:"required,max=50"`
	Description    *string         `json:"description" validate:"omitempty,max=255"`
	Currency       string          `json:"currency" validate:"currency_query"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AccountUpdateFields holds optional fields for updating an account.
// Nil pointers mean "don't change".
type AccountUpdateFields struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(in CreateAccountInput) (*models.Account, error)
	GetAccount(userID, accountID int64) (*models.Account, error)
	ListAccounts(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error)
	UpdateAccount(userID, accountID int64, fields AccountUpdateFields) (*models.Account, error)
	DeactivateAccount(userID, accountID int64) (*models.Account, error)
	GetUserBalance(userID int64) (decimal.Decimal, error)
}

// TransactionInput holds the fields shared by Topup, Withdraw and Purchase.
// Amounts may be given with either sign; the transaction type decides it.
type TransactionInput struct {
	UserID                  int64            `json:"user_id" validate:"required"`
	AccountID               int64            `json:"account_id" validate:"required"`
	Amount                  decimal.Decimal  `json:"amount" validate:"required"`
	Currency                string           `json:"currency" validate:"currency_query"`
	AmountInAccountCurrency *decimal.Decimal `json:"amount_in_account_currency"`
	Date                    *time.Time       `json:"date"`
	Description             *string          `json:"description" validate:"omitempty,max=255"`
}

// TransferInput holds the fields for moving money between two accounts of
// the same user. The destination leg falls back to the source amount and
// currency when its own values are not given.
type TransferInput struct {
	UserID                    int64            `json:"user_id" validate:"required"`
	AccountID                 int64            `json:"account_id" validate:"required"`
	AccountIDTo               int64            `json:"account_id_to" validate:"required"`
	Amount                    decimal.Decimal  `json:"amount" validate:"required"`
	Currency                  string           `json:"currency" validate:"currency_query"`
	AmountInAccountCurrency   *decimal.Decimal `json:"amount_in_account_currency"`
	AmountTo                  *decimal.Decimal `json:"amount_to"`
	CurrencyTo                *string          `json:"currency_to" validate:"omitempty,currency_query"`
	AmountInAccountCurrencyTo *decimal.Decimal `json:"amount_in_account_currency_to"`
	Date                      *time.Time       `json:"date"`
	Description               *string          `json:"description" validate:"omitempty,max=255"`
}

// BalanceDrift reports an account whose cached balance disagrees with the
// sum of its live transactions.
type BalanceDrift struct {
	AccountID   int64           `json:"account_id"`
	AccountName string          `json:"account_name"`
	Cached      decimal.Decimal `json:"cached"`
	Computed    decimal.Decimal `json:"computed"`
}

// TransactionServicer defines the contract for ledger mutations and reads.
type TransactionServicer interface {
	CreateTopup(in TransactionInput) (*models.Transaction, error)
	CreateWithdraw(in TransactionInput) (*models.Transaction, error)
	CreatePurchase(in TransactionInput) (*models.Transaction, error)
	CreateTransfer(in TransferInput) (*models.Transaction, error)
	GetTransaction(userID, accountID, transactionID int64) (*models.Transaction, error)
	ListTransactions(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error)
	DeleteTransaction(userID, accountID, transactionID int64) ([]models.Transaction, error)
	VerifyBalances(userID int64) ([]BalanceDrift, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID int64, action, resourceType string, resourceID int64, changes map[string]any) error
}
