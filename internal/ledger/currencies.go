package ledger

import (
	"context"

	"moneybot/internal/models"
)

func (l *ledger) FindCurrency(ctx context.Context, query string) (*models.Currency, error) {
	var currency *models.Currency
	err := l.run(ctx, func(b *bound) error {
		var err error
		currency, err = b.currencies.FindCurrency(query)
		return err
	})
	return currency, err
}

func (l *ledger) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	var currencies []models.Currency
	err := l.run(ctx, func(b *bound) error {
		var err error
		currencies, err = b.currencies.ListCurrencies()
		return err
	})
	return currencies, err
}
