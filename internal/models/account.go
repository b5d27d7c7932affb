package models

import "github.com/shopspring/decimal"

// Account represents a user's wallet in a single currency. Balance is a
// cached sum of the account's non-deleted transactions.
type Account struct {
	Base
	UserID      int64           `gorm:"not null;uniqueIndex:idx_accounts_user_name" json:"user_id"`
	Name        string          `gorm:"size:50;not null;uniqueIndex:idx_accounts_user_name" json:"name"`
	Description *string         `gorm:"size:255" json:"description,omitempty"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Balance     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"balance"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
