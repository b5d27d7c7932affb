package testutil_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneybot/internal/errors"
	"moneybot/internal/models"
	"moneybot/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "currencies", "accounts", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolation(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated databases, second has %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	currencies := testutil.SeedCurrencies(t, db)
	if len(currencies) != len(testutil.DefaultCurrencies) || currencies[0].ID == 0 {
		t.Fatalf("expected seeded currencies with ids, got %+v", currencies)
	}

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(5000))
	if !account.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected balance 5000, got %s", account.Balance)
	}

	var txCount int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
	if txCount != 1 {
		t.Errorf("expected backing topup transaction, got %d", txCount)
	}

	empty := testutil.CreateTestAccount(t, db, user.ID)
	if !empty.IsActive || !empty.Balance.IsZero() {
		t.Errorf("expected active empty account, got %+v", empty)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
