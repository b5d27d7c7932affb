package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/fuzzy"
	"moneybot/internal/logger"
	"moneybot/internal/models"
	"moneybot/internal/uow"
)

// DefaultCurrencyMatchThreshold is the fuzzy score at or below which a
// currency guess is rejected.
const DefaultCurrencyMatchThreshold = 50

// currencyService resolves currencies by exact code or fuzzy name.
type currencyService struct {
	scope     *uow.Scope
	threshold int
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(scope *uow.Scope, threshold int) CurrencyServicer {
	return &currencyService{scope: scope, threshold: threshold}
}

// FindCurrency matches the ISO code first and falls back to the closest
// "ISO:NAME" pair.
func (s *currencyService) FindCurrency(query string) (*models.Currency, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperrors.WithMessage(apperrors.ErrCurrencyNotFound, "Currency is required")
	}

	repo := s.scope.Currencies()
	currency, err := repo.GetByISO(q)
	if err == nil {
		return currency, nil
	}
	if !errors.Is(err, apperrors.ErrCurrencyNotFound) {
		return nil, err
	}

	all, err := repo.All(filter.Expression{})
	if err != nil {
		return nil, err
	}
	choices := make([]string, len(all))
	for i, c := range all {
		choices[i] = c.Choice()
	}

	match, ok := fuzzy.ExtractOne(q, choices)
	if !ok || match.Score <= s.threshold {
		return nil, apperrors.WithMessage(apperrors.ErrCurrencyNotFound, fmt.Sprintf("No currency matches %q", q))
	}

	logger.Named("currency").Debugw("fuzzy currency match",
		"query", q,
		"match", match.Choice,
		"score", match.Score,
	)
	return &all[match.Index], nil
}

// ListCurrencies returns every known currency ordered by code.
func (s *currencyService) ListCurrencies() ([]models.Currency, error) {
	currencies, err := s.scope.Currencies().All(filter.Expression{})
	if err != nil {
		return nil, err
	}
	if currencies == nil {
		currencies = []models.Currency{}
	}
	return currencies, nil
}
