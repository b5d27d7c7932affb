package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/logger"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/uow"
)

// transactionService records ledger entries and keeps cached balances in step.
type transactionService struct {
	scope      *uow.Scope
	currencies CurrencyServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(scope *uow.Scope, currencies CurrencyServicer) TransactionServicer {
	return &transactionService{scope: scope, currencies: currencies}
}

// CreateTopup records money coming into an account.
func (s *transactionService) CreateTopup(in TransactionInput) (*models.Transaction, error) {
	return s.create(models.TransactionTypeTopup, in)
}

// CreateWithdraw records money leaving an account.
func (s *transactionService) CreateWithdraw(in TransactionInput) (*models.Transaction, error) {
	return s.create(models.TransactionTypeWithdraw, in)
}

// CreatePurchase records spending. A purchase must say what was bought.
func (s *transactionService) CreatePurchase(in TransactionInput) (*models.Transaction, error) {
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "a purchase needs a description")
	}
	return s.create(models.TransactionTypePurchase, in)
}

func (s *transactionService) create(txType models.TransactionType, in TransactionInput) (*models.Transaction, error) {
	account, err := s.activeAccount(in.UserID, in.AccountID)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencies.FindCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	amount, inAccountCurrency, err := NormalizeAmounts(txType, in.Amount, in.AmountInAccountCurrency)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		Type:                    txType,
		AccountID:               account.ID,
		Amount:                  amount,
		Currency:                currency.ISOCode,
		AmountInAccountCurrency: inAccountCurrency,
		TransactionDate:         transactionDate(in.Date),
		Description:             in.Description,
	}
	if err := s.scope.Transactions().Create(tx); err != nil {
		return nil, err
	}
	if err := applyDelta(s.scope, account, inAccountCurrency); err != nil {
		return nil, err
	}

	tx.Account = account
	return tx, nil
}

// CreateTransfer moves money between two of the user's accounts as a pair
// of linked Transfer legs and returns the source leg.
func (s *transactionService) CreateTransfer(in TransferInput) (*models.Transaction, error) {
	if in.AccountID == in.AccountIDTo {
		return nil, apperrors.ErrSameAccountTransfer
	}

	from, err := s.activeAccount(in.UserID, in.AccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.activeAccount(in.UserID, in.AccountIDTo)
	if err != nil {
		return nil, err
	}

	currency, err := s.currencies.FindCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	currencyTo := currency
	if in.CurrencyTo != nil {
		if currencyTo, err = s.currencies.FindCurrency(*in.CurrencyTo); err != nil {
			return nil, err
		}
	}

	amount := in.Amount.Abs()
	fromInAccount := valueOr(in.AmountInAccountCurrency, amount)
	amountTo := valueOr(in.AmountTo, amount)
	toInAccount := valueOr(in.AmountInAccountCurrencyTo, amountTo)
	date := transactionDate(in.Date)

	source := &models.Transaction{
		Type:                    models.TransactionTypeTransfer,
		AccountID:               from.ID,
		Amount:                  amount.Neg(),
		Currency:                currency.ISOCode,
		AmountInAccountCurrency: fromInAccount.Neg(),
		TransactionDate:         date,
		Description:             in.Description,
	}
	if err := s.scope.Transactions().Create(source); err != nil {
		return nil, err
	}

	dest := &models.Transaction{
		Type:                    models.TransactionTypeTransfer,
		AccountID:               to.ID,
		Amount:                  amountTo,
		Currency:                currencyTo.ISOCode,
		AmountInAccountCurrency: toInAccount,
		TransactionDate:         date,
		Description:             in.Description,
		ReferenceTransactionID:  &source.ID,
	}
	if err := s.scope.Transactions().Create(dest); err != nil {
		return nil, err
	}

	source.ReferenceTransactionID = &dest.ID
	if err := s.scope.Transactions().Save(source); err != nil {
		return nil, err
	}

	if err := applyDelta(s.scope, from, source.AmountInAccountCurrency); err != nil {
		return nil, err
	}
	if err := applyDelta(s.scope, to, dest.AmountInAccountCurrency); err != nil {
		return nil, err
	}

	source.Account = from
	return source, nil
}

// GetTransaction retrieves a live transaction of one of the user's accounts.
func (s *transactionService) GetTransaction(userID, accountID, transactionID int64) (*models.Transaction, error) {
	return s.scope.Transactions().Get(transactionID, filter.All(
		ownedBy(userID),
		filter.Where("account_id", filter.OpEq, accountID),
	))
}

// ListTransactions returns one page of the user's live transactions matching
// f, newest first.
func (s *transactionService) ListTransactions(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error) {
	return s.scope.Transactions().List(page, f.And(ownedBy(userID)))
}

// DeleteTransaction soft-deletes a transaction together with every
// transaction linked to it through reference ids, reversing each one's
// balance effect exactly once. It returns the removed transactions.
func (s *transactionService) DeleteTransaction(userID, accountID, transactionID int64) ([]models.Transaction, error) {
	root, err := s.GetTransaction(userID, accountID, transactionID)
	if err != nil {
		return nil, err
	}

	repo := s.scope.Transactions()
	seen := map[int64]bool{root.ID: true}
	queue := []models.Transaction{*root}
	var removed []models.Transaction

	for len(queue) > 0 {
		tx := queue[0]
		queue = queue[1:]

		if err := s.reverse(&tx); err != nil {
			return nil, err
		}
		removed = append(removed, tx)

		linked, err := repo.ListReferencing(tx.ID)
		if err != nil {
			return nil, err
		}
		if tx.ReferenceTransactionID != nil && !seen[*tx.ReferenceTransactionID] {
			peer, err := repo.Get(*tx.ReferenceTransactionID, filter.Expression{})
			switch {
			case err == nil:
				linked = append(linked, *peer)
			case !errors.Is(err, apperrors.ErrTransactionNotFound):
				return nil, err
			}
		}

		for _, next := range linked {
			if seen[next.ID] {
				continue
			}
			seen[next.ID] = true
			queue = append(queue, next)
		}
	}

	return removed, nil
}

// reverse marks tx deleted and takes its amount back out of its account.
func (s *transactionService) reverse(tx *models.Transaction) error {
	now := time.Now().UTC()
	if _, err := s.scope.Transactions().Update(tx.ID, map[string]any{
		"is_deleted": true,
		"deleted_at": &now,
	}, filter.Expression{}); err != nil {
		return err
	}
	tx.IsDeleted = true
	tx.DeletedAt = &now

	delta := tx.AmountInAccountCurrency.Neg()
	if tx.Account != nil {
		return applyDelta(s.scope, tx.Account, delta)
	}
	return s.scope.Accounts().AdjustBalance(tx.AccountID, delta)
}

// VerifyBalances recomputes every account balance of the user from its live
// transactions and reports the accounts whose cached value has drifted.
func (s *transactionService) VerifyBalances(userID int64) ([]BalanceDrift, error) {
	accounts, err := s.scope.Accounts().All(ownedBy(userID))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	sums, err := s.scope.Transactions().SumByAccount(ids)
	if err != nil {
		return nil, err
	}

	drifts := []BalanceDrift{}
	for _, a := range accounts {
		computed := sums[a.ID]
		if computed.Round(4).Equal(a.Balance.Round(4)) {
			continue
		}
		drifts = append(drifts, BalanceDrift{
			AccountID:   a.ID,
			AccountName: a.Name,
			Cached:      a.Balance,
			Computed:    computed,
		})
		logger.Named("ledger").Warnw("balance drift detected",
			"user_id", userID,
			"account_id", a.ID,
			"cached", a.Balance.String(),
			"computed", computed.String(),
		)
	}
	return drifts, nil
}

// activeAccount loads an account of the user that can take new entries.
func (s *transactionService) activeAccount(userID, accountID int64) (*models.Account, error) {
	account, err := s.scope.Accounts().Get(accountID, ownedBy(userID))
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "Account is deactivated")
	}
	return account, nil
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return v.Abs()
}
