package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
)

var accountWhitelist = filter.Whitelist{
	"id":           filter.Local("id", filter.TypeInt),
	"user_id":      filter.Local("user_id", filter.TypeInt),
	"account_name": filter.Local("name", filter.TypeString),
	"name":         filter.Local("name", filter.TypeString),
	"description":  filter.Local("description", filter.TypeString),
	"currency":     filter.Local("currency", filter.TypeString),
	"balance":      filter.Local("balance", filter.TypeDecimal),
	"is_active":    filter.Local("is_active", filter.TypeBool),
	"created_at":   filter.Local("created_at", filter.TypeTime),
}

// AccountRepository stores accounts and their cached balances.
type AccountRepository struct {
	*Repository[models.Account]
}

// NewAccountRepository creates an AccountRepository bound to db.
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{New[models.Account](db, Options{
		Whitelist: accountWhitelist,
		NotFound:  apperrors.ErrAccountNotFound,
	})}
}

// AdjustBalance adds delta to the stored balance in a single statement. The
// result is rounded to the column scale so stores without a true NUMERIC type
// do not accumulate float error.
func (r *AccountRepository) AdjustBalance(accountID int64, delta decimal.Decimal) error {
	res := r.db.Model(&models.Account{}).
		Where(clause.Eq{Column: column("id"), Value: accountID}).
		Update("balance", gorm.Expr("ROUND(balance + ?, 4)", delta))
	if res.Error != nil {
		return r.translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// SumBalances returns the total cached balance of a user's accounts, zero
// when the user has none.
func (r *AccountRepository) SumBalances(userID int64) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Account{}).
		Select("ROUND(SUM(balance), 4)").
		Where(clause.Eq{Column: column("user_id"), Value: userID}).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, r.translate(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
