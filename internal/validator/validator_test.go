package validator

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moneybot/internal/testutil"
)

type sample struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency" validate:"currency_query"`
	Type     string          `json:"type" validate:"omitempty,transaction_type"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := Struct(sample{Amount: decimal.NewFromInt(10), Currency: "евро", Type: "Purchase"})
		testutil.AssertNoError(t, err)
	})

	t.Run("zero_amount", func(t *testing.T) {
		err := Struct(sample{Amount: decimal.Zero, Currency: "USD"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		if !strings.Contains(err.Error(), "amount") {
			t.Errorf("expected json field name in message, got %q", err.Error())
		}
	})

	t.Run("blank_currency", func(t *testing.T) {
		err := Struct(sample{Amount: decimal.NewFromInt(1), Currency: "   "})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("currency_too_long", func(t *testing.T) {
		err := Struct(sample{Amount: decimal.NewFromInt(1), Currency: strings.Repeat("x", maxCurrencyQuery+1)})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_transaction_type", func(t *testing.T) {
		err := Struct(sample{Amount: decimal.NewFromInt(1), Currency: "USD", Type: "income"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}
