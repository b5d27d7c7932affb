package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
	"moneybot/internal/uow"
)

// NormalizeAmounts applies the sign rule of a single-leg transaction type to
// the amount and the optional account-currency amount. The account-currency
// amount defaults to the signed amount.
func NormalizeAmounts(txType models.TransactionType, amount decimal.Decimal, inAccountCurrency *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var negative bool
	switch txType {
	case models.TransactionTypeTopup:
	case models.TransactionTypeWithdraw, models.TransactionTypePurchase:
		negative = true
	default:
		return decimal.Zero, decimal.Zero, apperrors.ErrInvalidTransactionType
	}

	signed := signAs(amount, negative)
	if inAccountCurrency == nil {
		return signed, signed, nil
	}
	return signed, signAs(*inAccountCurrency, negative), nil
}

func signAs(d decimal.Decimal, negative bool) decimal.Decimal {
	if negative {
		return d.Abs().Neg()
	}
	return d.Abs()
}

// applyDelta moves an account's cached balance and keeps the loaded copy in
// step with the stored row.
func applyDelta(scope *uow.Scope, account *models.Account, delta decimal.Decimal) error {
	if err := scope.Accounts().AdjustBalance(account.ID, delta); err != nil {
		return err
	}
	account.Balance = account.Balance.Add(delta)
	return nil
}

// transactionDate truncates t to a UTC calendar day, defaulting to today.
func transactionDate(t *time.Time) datatypes.Date {
	day := time.Now().UTC()
	if t != nil {
		day = t.UTC()
	}
	return datatypes.Date(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC))
}

func ownedBy(userID int64) filter.Expression {
	return filter.Where("user_id", filter.OpEq, userID)
}
