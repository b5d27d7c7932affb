package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"moneybot/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// DefaultCurrencies is the reference data seeded by SeedCurrencies.
var DefaultCurrencies = []models.Currency{
	{ISOCode: "EUR", Name: "Euro"},
	{ISOCode: "GBP", Name: "Pound Sterling"},
	{ISOCode: "KZT", Name: "Казахстанский тенге"},
	{ISOCode: "RUB", Name: "Российский рубль"},
	{ISOCode: "USD", Name: "US Dollar"},
}

// SeedCurrencies inserts DefaultCurrencies.
func SeedCurrencies(t *testing.T, db *gorm.DB) []models.Currency {
	t.Helper()

	currencies := make([]models.Currency, len(DefaultCurrencies))
	copy(currencies, DefaultCurrencies)
	if err := db.Create(&currencies).Error; err != nil {
		t.Fatalf("failed to seed currencies: %v", err)
	}
	return currencies
}

// CreateTestUser creates a user with a unique chat id.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Name:   fmt.Sprintf("user%d", n),
		ChatID: 100000 + n,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active USD account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID int64) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, "USD", decimal.Zero)
}

// CreateTestAccountWithBalance creates an account whose cached balance is
// backed by a matching Topup so the balance invariant holds.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID int64, currency string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Currency: currency,
		Balance:  balance,
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	if !balance.IsZero() {
		CreateTestTransaction(t, db, account.ID, models.TransactionTypeTopup, balance)
	}
	return account
}

// CreateTestTransaction inserts a transaction row directly, without touching
// the account balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID int64, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Type:                    txType,
		AccountID:               accountID,
		Amount:                  amount,
		Currency:                "USD",
		AmountInAccountCurrency: amount,
		TransactionDate:         datatypes.Date(time.Now().UTC()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
