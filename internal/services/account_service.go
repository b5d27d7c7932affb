package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/uow"
)

const initialBalanceDescription = "Initial balance"

// accountService handles account-related business logic.
type accountService struct {
	scope      *uow.Scope
	currencies CurrencyServicer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(scope *uow.Scope, currencies CurrencyServicer) AccountServicer {
	return &accountService{scope: scope, currencies: currencies}
}

// CreateAccount opens an account in the resolved currency. A non-zero
// initial balance is recorded as an "Initial balance" Topup or Withdraw so
// the cached balance is backed by a transaction from the start.
func (s *accountService) CreateAccount(in CreateAccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "account name is required")
	}

	if _, err := s.scope.Users().Get(in.UserID, filter.Expression{}); err != nil {
		return nil, err
	}

	currency, err := s.currencies.FindCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:      in.UserID,
		Name:        name,
		Description: in.Description,
		Currency:    currency.ISOCode,
		Balance:     decimal.Zero,
		IsActive:    true,
	}
	if err := s.scope.Accounts().Create(account); err != nil {
		return nil, accountConflict(err)
	}

	if in.InitialBalance.IsZero() {
		return account, nil
	}

	txType := models.TransactionTypeTopup
	if in.InitialBalance.IsNegative() {
		txType = models.TransactionTypeWithdraw
	}
	amount, inAccountCurrency, err := NormalizeAmounts(txType, in.InitialBalance, nil)
	if err != nil {
		return nil, err
	}

	description := initialBalanceDescription
	initial := &models.Transaction{
		Type:                    txType,
		AccountID:               account.ID,
		Amount:                  amount,
		Currency:                account.Currency,
		AmountInAccountCurrency: inAccountCurrency,
		TransactionDate:         transactionDate(nil),
		Description:             &description,
	}
	if err := s.scope.Transactions().Create(initial); err != nil {
		return nil, err
	}
	if err := applyDelta(s.scope, account, inAccountCurrency); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID for a specific user.
func (s *accountService) GetAccount(userID, accountID int64) (*models.Account, error) {
	return s.scope.Accounts().Get(accountID, ownedBy(userID))
}

// ListAccounts returns one page of the user's accounts matching f.
func (s *accountService) ListAccounts(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
	return s.scope.Accounts().List(page, f.And(ownedBy(userID)))
}

// UpdateAccount renames an account or changes its description.
func (s *accountService) UpdateAccount(userID, accountID int64, fields AccountUpdateFields) (*models.Account, error) {
	updates := make(map[string]any)
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "account name cannot be empty")
		}
		updates["name"] = name
	}
	if fields.Description != nil {
		updates["description"] = fields.Description
	}

	account, err := s.scope.Accounts().Update(accountID, updates, ownedBy(userID))
	if err != nil {
		return nil, accountConflict(err)
	}
	return account, nil
}

// DeactivateAccount hides an account from new transactions. Accounts are
// never hard-deleted.
func (s *accountService) DeactivateAccount(userID, accountID int64) (*models.Account, error) {
	return s.scope.Accounts().Update(accountID, map[string]any{"is_active": false}, ownedBy(userID))
}

// GetUserBalance sums the cached balances of every account the user owns.
func (s *accountService) GetUserBalance(userID int64) (decimal.Decimal, error) {
	return s.scope.Accounts().SumBalances(userID)
}

func accountConflict(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.Wrap(apperrors.ErrAccountAlreadyExists, err)
	}
	return err
}
