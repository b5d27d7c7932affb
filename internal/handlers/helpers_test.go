package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneybot/internal/filter"
	"moneybot/internal/ledger"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
	"moneybot/internal/validator"
)

// --- mock ledger ---

type mockLedger struct {
	registerUserFn      func(in ledger.RegisterUserInput) (*models.User, error)
	getUserByChatIDFn   func(chatID int64) (*models.User, error)
	findCurrencyFn      func(query string) (*models.Currency, error)
	listCurrenciesFn    func() ([]models.Currency, error)
	createAccountFn     func(in services.CreateAccountInput) (*models.Account, error)
	getAccountFn        func(userID, accountID int64) (*models.Account, error)
	listAccountsFn      func(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error)
	updateAccountFn     func(userID, accountID int64, fields services.AccountUpdateFields) (*models.Account, error)
	deactivateAccountFn func(userID, accountID int64) (*models.Account, error)
	getUserBalanceFn    func(userID int64) (decimal.Decimal, error)
	verifyBalancesFn    func(userID int64) ([]services.BalanceDrift, error)
	createTopupFn       func(in services.TransactionInput) (*models.Transaction, error)
	createWithdrawFn    func(in services.TransactionInput) (*models.Transaction, error)
	createPurchaseFn    func(in services.TransactionInput) (*models.Transaction, error)
	createTransferFn    func(in services.TransferInput) (*models.Transaction, error)
	getTransactionFn    func(userID, accountID, transactionID int64) (*models.Transaction, error)
	listTransactionsFn  func(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error)
	deleteTransactionFn func(userID, accountID, transactionID int64) ([]models.Transaction, error)
}

func (m *mockLedger) RegisterUser(_ context.Context, in ledger.RegisterUserInput) (*models.User, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(in)
	}
	return &models.User{}, nil
}

func (m *mockLedger) GetUserByChatID(_ context.Context, chatID int64) (*models.User, error) {
	if m.getUserByChatIDFn != nil {
		return m.getUserByChatIDFn(chatID)
	}
	return &models.User{}, nil
}

func (m *mockLedger) FindCurrency(_ context.Context, query string) (*models.Currency, error) {
	if m.findCurrencyFn != nil {
		return m.findCurrencyFn(query)
	}
	return &models.Currency{}, nil
}

func (m *mockLedger) ListCurrencies(_ context.Context) ([]models.Currency, error) {
	if m.listCurrenciesFn != nil {
		return m.listCurrenciesFn()
	}
	return []models.Currency{}, nil
}

func (m *mockLedger) CreateAccount(_ context.Context, in services.CreateAccountInput) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(in)
	}
	return &models.Account{}, nil
}

func (m *mockLedger) GetAccount(_ context.Context, userID, accountID int64) (*models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockLedger) ListAccounts(_ context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(userID, f, page)
	}
	return nil, nil
}

func (m *mockLedger) UpdateAccount(_ context.Context, userID, accountID int64, fields services.AccountUpdateFields) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, fields)
	}
	return &models.Account{}, nil
}

func (m *mockLedger) DeactivateAccount(_ context.Context, userID, accountID int64) (*models.Account, error) {
	if m.deactivateAccountFn != nil {
		return m.deactivateAccountFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockLedger) GetUserBalance(_ context.Context, userID int64) (decimal.Decimal, error) {
	if m.getUserBalanceFn != nil {
		return m.getUserBalanceFn(userID)
	}
	return decimal.Zero, nil
}

func (m *mockLedger) VerifyBalances(_ context.Context, userID int64) ([]services.BalanceDrift, error) {
	if m.verifyBalancesFn != nil {
		return m.verifyBalancesFn(userID)
	}
	return nil, nil
}

func (m *mockLedger) CreateTopup(_ context.Context, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTopupFn != nil {
		return m.createTopupFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedger) CreateWithdraw(_ context.Context, in services.TransactionInput) (*models.Transaction, error) {
	if m.createWithdrawFn != nil {
		return m.createWithdrawFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedger) CreatePurchase(_ context.Context, in services.TransactionInput) (*models.Transaction, error) {
	if m.createPurchaseFn != nil {
		return m.createPurchaseFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedger) CreateTransfer(_ context.Context, in services.TransferInput) (*models.Transaction, error) {
	if m.createTransferFn != nil {
		return m.createTransferFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedger) GetTransaction(_ context.Context, userID, accountID, transactionID int64) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(userID, accountID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedger) ListTransactions(_ context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(userID, f, page)
	}
	return nil, nil
}

func (m *mockLedger) DeleteTransaction(_ context.Context, userID, accountID, transactionID int64) ([]models.Transaction, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, accountID, transactionID)
	}
	return []models.Transaction{}, nil
}

// verify interface compliance
var _ ledger.Ledger = (*mockLedger)(nil)

// --- helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
