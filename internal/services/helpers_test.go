package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneybot/internal/models"
	"moneybot/internal/testutil"
	"moneybot/internal/uow"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

// beginScope opens a scope on db that is rolled back at the end of the test
// unless it was committed.
func beginScope(t *testing.T, db *gorm.DB) *uow.Scope {
	t.Helper()
	scope, err := uow.New(db).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin scope: %v", err)
	}
	t.Cleanup(scope.Close)
	return scope
}

// ledgerServices bundles the services bound to one scope.
type ledgerServices struct {
	scope        *uow.Scope
	users        UserServicer
	currencies   CurrencyServicer
	accounts     AccountServicer
	transactions TransactionServicer
}

func newLedgerServices(t *testing.T, db *gorm.DB) *ledgerServices {
	t.Helper()
	scope := beginScope(t, db)
	currencies := NewCurrencyService(scope, DefaultCurrencyMatchThreshold)
	return &ledgerServices{
		scope:        scope,
		users:        NewUserService(scope),
		currencies:   currencies,
		accounts:     NewAccountService(scope, currencies),
		transactions: NewTransactionService(scope, currencies),
	}
}

func (s *ledgerServices) commit(t *testing.T) {
	t.Helper()
	if err := s.scope.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// setupLedger returns a migrated database with currencies and one user.
func setupLedger(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	testutil.SeedCurrencies(t, db)
	return db, testutil.CreateTestUser(t, db)
}

// reloadAccount reads an account outside any scope.
func reloadAccount(t *testing.T, db *gorm.DB, id int64) models.Account {
	t.Helper()
	var account models.Account
	if err := db.First(&account, id).Error; err != nil {
		t.Fatalf("reload account %d: %v", id, err)
	}
	return account
}

// reloadTransaction reads a transaction outside any scope, deleted or not.
func reloadTransaction(t *testing.T, db *gorm.DB, id int64) models.Transaction {
	t.Helper()
	var tx models.Transaction
	if err := db.First(&tx, id).Error; err != nil {
		t.Fatalf("reload transaction %d: %v", id, err)
	}
	return tx
}
