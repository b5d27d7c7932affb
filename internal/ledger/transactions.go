package ledger

import (
	"context"

	"moneybot/internal/events"
	"moneybot/internal/filter"
	"moneybot/internal/logger"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
	"moneybot/internal/validator"
)

func (l *ledger) CreateTopup(ctx context.Context, in services.TransactionInput) (*models.Transaction, error) {
	return l.createTransaction(ctx, in, services.TransactionServicer.CreateTopup)
}

func (l *ledger) CreateWithdraw(ctx context.Context, in services.TransactionInput) (*models.Transaction, error) {
	return l.createTransaction(ctx, in, services.TransactionServicer.CreateWithdraw)
}

func (l *ledger) CreatePurchase(ctx context.Context, in services.TransactionInput) (*models.Transaction, error) {
	return l.createTransaction(ctx, in, services.TransactionServicer.CreatePurchase)
}

func (l *ledger) createTransaction(
	ctx context.Context,
	in services.TransactionInput,
	create func(services.TransactionServicer, services.TransactionInput) (*models.Transaction, error),
) (*models.Transaction, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	return l.recordCreated(ctx, in.UserID, func(b *bound) (*models.Transaction, error) {
		return create(b.transactions, in)
	})
}

func (l *ledger) CreateTransfer(ctx context.Context, in services.TransferInput) (*models.Transaction, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	return l.recordCreated(ctx, in.UserID, func(b *bound) (*models.Transaction, error) {
		return b.transactions.CreateTransfer(in)
	})
}

func (l *ledger) recordCreated(ctx context.Context, userID int64, fn func(*bound) (*models.Transaction, error)) (*models.Transaction, error) {
	var tx *models.Transaction
	err := l.run(ctx, func(b *bound) error {
		var err error
		if tx, err = fn(b); err != nil {
			return err
		}
		return b.audit.Log(userID, string(events.TransactionCreated), resourceTransaction, tx.ID, transactionChanges(tx))
	})
	if err != nil {
		return nil, err
	}

	logger.Named("ledger").Infow("transaction created",
		"user_id", userID,
		"transaction_id", tx.ID,
		"type", tx.Type,
		"account_id", tx.AccountID,
		"amount", tx.AmountInAccountCurrency.String(),
	)
	l.publish(ctx, events.New(events.TransactionCreated, userID, tx))
	return tx, nil
}

func (l *ledger) GetTransaction(ctx context.Context, userID, accountID, transactionID int64) (*models.Transaction, error) {
	var tx *models.Transaction
	err := l.run(ctx, func(b *bound) error {
		var err error
		tx, err = b.transactions.GetTransaction(userID, accountID, transactionID)
		return err
	})
	return tx, err
}

func (l *ledger) ListTransactions(ctx context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := l.run(ctx, func(b *bound) error {
		var err error
		txs, err = b.transactions.ListTransactions(userID, f, page)
		return err
	})
	return txs, err
}

func (l *ledger) DeleteTransaction(ctx context.Context, userID, accountID, transactionID int64) ([]models.Transaction, error) {
	var removed []models.Transaction
	err := l.run(ctx, func(b *bound) error {
		var err error
		if removed, err = b.transactions.DeleteTransaction(userID, accountID, transactionID); err != nil {
			return err
		}
		for i := range removed {
			if err := b.audit.Log(userID, string(events.TransactionDeleted), resourceTransaction, removed[i].ID, transactionChanges(&removed[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	evs := make([]events.Event, len(removed))
	for i := range removed {
		evs[i] = events.New(events.TransactionDeleted, userID, removed[i])
	}
	logger.Named("ledger").Infow("transactions deleted",
		"user_id", userID,
		"transaction_id", transactionID,
		"count", len(removed),
	)
	l.publish(ctx, evs...)
	return removed, nil
}

func transactionChanges(tx *models.Transaction) map[string]any {
	changes := map[string]any{
		"type":                       tx.Type,
		"account_id":                 tx.AccountID,
		"amount":                     tx.Amount.String(),
		"currency":                   tx.Currency,
		"amount_in_account_currency": tx.AmountInAccountCurrency.String(),
		"is_deleted":                 tx.IsDeleted,
	}
	if tx.ReferenceTransactionID != nil {
		changes["reference_transaction_id"] = *tx.ReferenceTransactionID
	}
	return changes
}
