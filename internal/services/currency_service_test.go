package services

import (
	"testing"

	"moneybot/internal/testutil"
)

func TestFindCurrency(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact_code", "USD", "USD"},
		{"lower_case_code", " eur ", "EUR"},
		{"name", "pound sterling", "GBP"},
		{"partial_name", "dollar", "USD"},
		{"misspelled_name", "sterlng", "GBP"},
		{"cyrillic_name", "рубль", "RUB"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, _ := setupLedger(t)
			svc := newLedgerServices(t, db)

			currency, err := svc.currencies.FindCurrency(tc.query)
			testutil.AssertNoError(t, err)
			if currency.ISOCode != tc.want {
				t.Errorf("query %q: expected %s, got %s", tc.query, tc.want, currency.ISOCode)
			}
		})
	}

	t.Run("no_match", func(t *testing.T) {
		db, _ := setupLedger(t)
		svc := newLedgerServices(t, db)

		_, err := svc.currencies.FindCurrency("zzzzzz")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})

	t.Run("empty", func(t *testing.T) {
		db, _ := setupLedger(t)
		svc := newLedgerServices(t, db)

		_, err := svc.currencies.FindCurrency("  ")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})

	t.Run("threshold_is_configurable", func(t *testing.T) {
		db, _ := setupLedger(t)
		scope := beginScope(t, db)
		strict := NewCurrencyService(scope, 100)

		_, err := strict.FindCurrency("sterlng")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")

		currency, err := strict.FindCurrency("GBP")
		testutil.AssertNoError(t, err)
		if currency.ISOCode != "GBP" {
			t.Errorf("expected exact code to bypass threshold, got %s", currency.ISOCode)
		}
	})
}

func TestListCurrencies(t *testing.T) {
	db, _ := setupLedger(t)
	svc := newLedgerServices(t, db)

	currencies, err := svc.currencies.ListCurrencies()
	testutil.AssertNoError(t, err)
	if len(currencies) != len(testutil.DefaultCurrencies) {
		t.Fatalf("expected %d currencies, got %d", len(testutil.DefaultCurrencies), len(currencies))
	}
	for i := 1; i < len(currencies); i++ {
		if currencies[i-1].ISOCode > currencies[i].ISOCode {
			t.Errorf("currencies not ordered by code: %s before %s", currencies[i-1].ISOCode, currencies[i].ISOCode)
		}
	}
}
