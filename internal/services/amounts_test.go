package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneybot/internal/models"
	"moneybot/internal/testutil"
)

func TestNormalizeAmounts(t *testing.T) {
	tests := []struct {
		name       string
		txType     models.TransactionType
		amount     string
		inAccount  *decimal.Decimal
		wantAmount string
		wantInAcc  string
	}{
		{"topup_positive", models.TransactionTypeTopup, "100", nil, "100", "100"},
		{"topup_negative_flipped", models.TransactionTypeTopup, "-100", nil, "100", "100"},
		{"withdraw_positive_flipped", models.TransactionTypeWithdraw, "50", nil, "-50", "-50"},
		{"withdraw_negative", models.TransactionTypeWithdraw, "-50", nil, "-50", "-50"},
		{"purchase_positive_flipped", models.TransactionTypePurchase, "12.5", nil, "-12.5", "-12.5"},
		{"in_account_follows_sign", models.TransactionTypeTopup, "10", decPtr("-9"), "10", "9"},
		{"purchase_in_account_currency", models.TransactionTypePurchase, "10", decPtr("4500"), "-10", "-4500"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, inAcc, err := NormalizeAmounts(tc.txType, dec(tc.amount), tc.inAccount)
			testutil.AssertNoError(t, err)
			testutil.AssertDecimal(t, amount, tc.wantAmount, "amount")
			testutil.AssertDecimal(t, inAcc, tc.wantInAcc, "amount in account currency")
		})
	}

	t.Run("transfer_rejected", func(t *testing.T) {
		_, _, err := NormalizeAmounts(models.TransactionTypeTransfer, dec("1"), nil)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("unknown_type_rejected", func(t *testing.T) {
		_, _, err := NormalizeAmounts(models.TransactionType("Refund"), dec("1"), nil)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})
}

func TestTransactionDate(t *testing.T) {
	t.Run("truncates_to_utc_day", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*60*60)
		in := time.Date(2024, 3, 2, 1, 30, 0, 0, loc)
		got := time.Time(transactionDate(&in))
		want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("defaults_to_today", func(t *testing.T) {
		got := time.Time(transactionDate(nil))
		now := time.Now().UTC()
		if got.Year() != now.Year() || got.YearDay() != now.YearDay() {
			t.Errorf("expected today, got %v", got)
		}
	})
}
