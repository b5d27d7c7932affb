package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
)

var currencyWhitelist = filter.Whitelist{
	"id":       filter.Local("id", filter.TypeInt),
	"iso_code": filter.Local("iso_code", filter.TypeString),
	"name":     filter.Local("name", filter.TypeString),
}

// CurrencyRepository reads the currency reference table.
type CurrencyRepository struct {
	*Repository[models.Currency]
}

// NewCurrencyRepository creates a CurrencyRepository bound to db.
func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{New[models.Currency](db, Options{
		Whitelist: currencyWhitelist,
		Order:     []clause.OrderByColumn{{Column: column("iso_code")}},
		NotFound:  apperrors.ErrCurrencyNotFound,
	})}
}

// GetByISO looks a currency up by its code, ignoring case.
func (r *CurrencyRepository) GetByISO(code string) (*models.Currency, error) {
	return r.FindOne(filter.Where("iso_code", filter.OpEq, strings.ToUpper(strings.TrimSpace(code))))
}
