// Package ledger is the entry point external collaborators use. Every
// operation runs in its own unit-of-work scope; mutations are audited inside
// that scope and announced as events once it has committed.
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
	"moneybot/internal/uow"
	"moneybot/internal/validator"
)

// Audit resource types.
const (
	resourceUser        = "user"
	resourceAccount     = "account"
	resourceTransaction = "transaction"
)

// RegisterUserInput holds the fields for registering a chat user.
type RegisterUserInput struct {
	Name   string `json:"name" validate:"required,max=50"`
	ChatID int64  `json:"chat_id" validate:"required"`
}

// Ledger exposes the ledger operations.
type Ledger interface {
	RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error)
	GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error)

	FindCurrency(ctx context.Context, query string) (*models.Currency, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)

	CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID int64, fields services.AccountUpdateFields) (*models.Account, error)
	DeactivateAccount(ctx context.Context, userID, accountID int64) (*models.Account, error)
	GetUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	VerifyBalances(ctx context.Context, userID int64) ([]services.BalanceDrift, error)

	CreateTopup(ctx context.Context, in services.TransactionInput) (*models.Transaction, error)
	CreateWithdraw(ctx context.Context, in services.TransactionInput) (*models.Transaction, error)
	CreatePurchase(ctx context.Context, in services.TransactionInput) (*models.Transaction, error)
	CreateTransfer(ctx context.Context, in services.TransferInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, accountID, transactionID int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, accountID, transactionID int64) ([]models.Transaction, error)
}

// Options configures a Ledger.
type Options struct {
	// CurrencyMatchThreshold is the fuzzy score at or below which a currency
	// guess is rejected. Zero selects the default.
	CurrencyMatchThreshold int
	// Publisher receives post-commit events. Nil drops them.
	Publisher events.Publisher
}

type ledger struct {
	uow       *uow.UnitOfWork
	threshold int
	publisher events.Publisher
}

// New creates a Ledger on top of u.
func New(u *uow.UnitOfWork, opts Options) Ledger {
	if opts.CurrencyMatchThreshold <= 0 {
		opts.CurrencyMatchThreshold = services.DefaultCurrencyMatchThreshold
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	return &ledger{uow: u, threshold: opts.CurrencyMatchThreshold, publisher: opts.Publisher}
}

// bound holds the services of one scope.
type bound struct {
	users        services.UserServicer
	currencies   services.CurrencyServicer
	accounts     services.AccountServicer
	transactions services.TransactionServicer
	audit        services.AuditServicer
}

func (l *ledger) run(ctx context.Context, fn func(*bound) error) error {
	return l.uow.Run(ctx, func(scope *uow.Scope) error {
		currencies := services.NewCurrencyService(scope, l.threshold)
		return fn(&bound{
			users:        services.NewUserService(scope),
			currencies:   currencies,
			accounts:     services.NewAccountService(scope, currencies),
			transactions: services.NewTransactionService(scope, currencies),
			audit:        services.NewAuditService(scope),
		})
	})
}

// publish announces committed changes. The change is already durable, so a
// failure is logged and otherwise ignored.
func (l *ledger) publish(ctx context.Context, evs ...events.Event) {
	ctx = context.WithoutCancel(ctx)
	for _, e := range evs {
		if err := l.publisher.Publish(ctx, e); err != nil {
			logger.Named("ledger").Errorw("failed to publish event",
				"event_id", e.ID.String(),
				"type", e.Type,
				"user_id", e.UserID,
				"error", err,
			)
		}
	}
}

func (l *ledger) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	var user *models.User
	err := l.run(ctx, func(b *bound) error {
		var err error
		if user, err = b.users.RegisterUser(in.Name, in.ChatID); err != nil {
			return err
		}
		return b.audit.Log(user.ID, string(events.UserRegistered), resourceUser, user.ID, map[string]any{
			"name":    user.Name,
			"chat_id": user.ChatID,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Named("ledger").Infow("user registered", "user_id", user.ID, "chat_id", user.ChatID)
	l.publish(ctx, events.New(events.UserRegistered, user.ID, user))
	return user, nil
}

func (l *ledger) GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user *models.User
	err := l.run(ctx, func(b *bound) error {
		var err error
		user, err = b.users.GetUserByChatID(chatID)
		return err
	})
	return user, err
}
