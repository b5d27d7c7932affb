package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeTopup    TransactionType = "Topup"
	TransactionTypeWithdraw TransactionType = "Withdraw"
	TransactionTypePurchase TransactionType = "Purchase"
	TransactionTypeTransfer TransactionType = "Transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeTopup, TransactionTypeWithdraw, TransactionTypePurchase, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is a single signed ledger entry against one account.
// Transfers are two rows whose ReferenceTransactionID point at each other.
type Transaction struct {
	ID                      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type                    TransactionType `gorm:"size:16;not null;index" json:"type"`
	AccountID               int64           `gorm:"not null;index" json:"account_id"`
	Amount                  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Currency                string          `gorm:"size:3;not null" json:"currency"`
	AmountInAccountCurrency decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount_in_account_currency"`
	TransactionDate         datatypes.Date  `gorm:"not null;index" json:"transaction_date"`
	Description             *string         `gorm:"size:255" json:"description,omitempty"`
	IsDeleted               bool            `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt               *time.Time      `json:"deleted_at,omitempty"`
	ReferenceTransactionID  *int64          `gorm:"index" json:"reference_transaction_id,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`

	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT" json:"account,omitempty"`
}
