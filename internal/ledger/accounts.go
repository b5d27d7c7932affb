package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"moneybot/internal/events"
	"moneybot/internal/filter"
	"moneybot/internal/logger"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
	"moneybot/internal/validator"
)

func (l *ledger) CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	var account *models.Account
	err := l.run(ctx, func(b *bound) error {
		var err error
		if account, err = b.accounts.CreateAccount(in); err != nil {
			return err
		}
		return b.audit.Log(in.UserID, string(events.AccountCreated), resourceAccount, account.ID, map[string]any{
			"name":     account.Name,
			"currency": account.Currency,
			"balance":  account.Balance.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Named("ledger").Infow("account created",
		"user_id", in.UserID,
		"account_id", account.ID,
		"currency", account.Currency,
	)
	l.publish(ctx, events.New(events.AccountCreated, in.UserID, account))
	return account, nil
}

func (l *ledger) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	var account *models.Account
	err := l.run(ctx, func(b *bound) error {
		var err error
		account, err = b.accounts.GetAccount(userID, accountID)
		return err
	})
	return account, err
}

func (l *ledger) ListAccounts(ctx context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
	var accounts []models.Account
	err := l.run(ctx, func(b *bound) error {
		var err error
		accounts, err = b.accounts.ListAccounts(userID, f, page)
		return err
	})
	return accounts, err
}

func (l *ledger) UpdateAccount(ctx context.Context, userID, accountID int64, fields services.AccountUpdateFields) (*models.Account, error) {
	if err := validator.Struct(fields); err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if fields.Name != nil {
		changes["name"] = *fields.Name
	}
	if fields.Description != nil {
		changes["description"] = *fields.Description
	}

	return l.mutateAccount(ctx, userID, changes, func(b *bound) (*models.Account, error) {
		return b.accounts.UpdateAccount(userID, accountID, fields)
	})
}

func (l *ledger) DeactivateAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	return l.mutateAccount(ctx, userID, map[string]any{"is_active": false}, func(b *bound) (*models.Account, error) {
		return b.accounts.DeactivateAccount(userID, accountID)
	})
}

func (l *ledger) mutateAccount(ctx context.Context, userID int64, changes map[string]any, fn func(*bound) (*models.Account, error)) (*models.Account, error) {
	var account *models.Account
	err := l.run(ctx, func(b *bound) error {
		var err error
		if account, err = fn(b); err != nil {
			return err
		}
		return b.audit.Log(userID, string(events.AccountUpdated), resourceAccount, account.ID, changes)
	})
	if err != nil {
		return nil, err
	}

	l.publish(ctx, events.New(events.AccountUpdated, userID, account))
	return account, nil
}

func (l *ledger) GetUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := l.run(ctx, func(b *bound) error {
		var err error
		total, err = b.accounts.GetUserBalance(userID)
		return err
	})
	return total, err
}

func (l *ledger) VerifyBalances(ctx context.Context, userID int64) ([]services.BalanceDrift, error) {
	var drifts []services.BalanceDrift
	err := l.run(ctx, func(b *bound) error {
		var err error
		drifts, err = b.transactions.VerifyBalances(userID)
		return err
	})
	return drifts, err
}
