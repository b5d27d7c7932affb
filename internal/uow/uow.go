// Package uow provides the unit of work: one database transaction per
// logical operation, with repositories bound to it on demand.
package uow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/logger"
	"moneybot/internal/repository"
)

// UnitOfWork opens transactional scopes against a database.
type UnitOfWork struct {
	db *gorm.DB
}

// New creates a UnitOfWork for db.
func New(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin starts a transaction bound to ctx. The caller must Close the scope;
// anything not committed by then is rolled back.
func (u *UnitOfWork) Begin(ctx context.Context) (*Scope, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("begin transaction: %w", tx.Error))
	}
	return &Scope{ctx: ctx, tx: tx}, nil
}

// Run executes fn inside a new scope, committing when fn returns nil and
// rolling back when it returns an error or panics.
func (u *UnitOfWork) Run(ctx context.Context, fn func(*Scope) error) error {
	scope, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close()

	if err := fn(scope); err != nil {
		return err
	}
	return scope.Commit()
}

// Scope is one open transaction. It is not safe for concurrent use.
type Scope struct {
	ctx  context.Context
	tx   *gorm.DB
	done bool

	users        *repository.UserRepository
	accounts     *repository.AccountRepository
	transactions *repository.TransactionRepository
	currencies   *repository.CurrencyRepository
	audit        *repository.AuditRepository
}

// Context returns the context the scope was opened with.
func (s *Scope) Context() context.Context { return s.ctx }

// Users returns the user repository bound to this scope.
func (s *Scope) Users() *repository.UserRepository {
	if s.users == nil {
		s.users = repository.NewUserRepository(s.tx)
	}
	return s.users
}

// Accounts returns the account repository bound to this scope.
func (s *Scope) Accounts() *repository.AccountRepository {
	if s.accounts == nil {
		s.accounts = repository.NewAccountRepository(s.tx)
	}
	return s.accounts
}

// Transactions returns the transaction repository bound to this scope.
func (s *Scope) Transactions() *repository.TransactionRepository {
	if s.transactions == nil {
		s.transactions = repository.NewTransactionRepository(s.tx)
	}
	return s.transactions
}

// Currencies returns the currency repository bound to this scope.
func (s *Scope) Currencies() *repository.CurrencyRepository {
	if s.currencies == nil {
		s.currencies = repository.NewCurrencyRepository(s.tx)
	}
	return s.currencies
}

// Audit returns the audit repository bound to this scope.
func (s *Scope) Audit() *repository.AuditRepository {
	if s.audit == nil {
		s.audit = repository.NewAuditRepository(s.tx)
	}
	return s.audit
}

// Commit makes the staged changes durable. A cancelled context rolls the
// scope back instead.
func (s *Scope) Commit() error {
	if s.done {
		return apperrors.Wrap(apperrors.ErrInternalServer, errors.New("scope already finished"))
	}
	if err := s.ctx.Err(); err != nil {
		s.rollback()
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.done = true
	if err := s.tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Rollback discards the staged changes.
func (s *Scope) Rollback() error {
	if s.done {
		return nil
	}
	return s.rollback()
}

// Close rolls back unless the scope was committed. It is safe to call more
// than once.
func (s *Scope) Close() {
	if !s.done {
		_ = s.rollback()
	}
}

func (s *Scope) rollback() error {
	s.done = true
	if err := s.tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) && !errors.Is(err, sql.ErrTxDone) {
		logger.Named("uow").Warnw("rollback failed", "error", err)
		return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("rollback: %w", err))
	}
	return nil
}
