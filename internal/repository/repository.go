// Package repository implements whitelisted, filterable CRUD over gorm for
// each ledger entity. A repository is bound to one *gorm.DB, normally the
// transaction owned by a unit-of-work scope.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/pagination"
)

// Options configures a Repository for one entity.
type Options struct {
	// Whitelist lists the fields callers may filter on.
	Whitelist filter.Whitelist
	// Joins describes the relations whitelisted fields can reach.
	Joins filter.JoinSpecs
	// Preload names join keys that are always eager-loaded.
	Preload []string
	// Order is the listing order. Defaults to id descending.
	Order []clause.OrderByColumn
	// Scope restricts every read, e.g. to hide soft-deleted rows.
	Scope func(*gorm.DB) *gorm.DB
	// NotFound is returned when a lookup matches nothing.
	NotFound *apperrors.AppError
}

// Repository provides filterable CRUD for entity type T.
type Repository[T any] struct {
	db   *gorm.DB
	opts Options
}

// New creates a Repository bound to db.
func New[T any](db *gorm.DB, opts Options) *Repository[T] {
	if opts.NotFound == nil {
		opts.NotFound = apperrors.ErrNotFound
	}
	if len(opts.Order) == 0 {
		opts.Order = []clause.OrderByColumn{{Column: column("id"), Desc: true}}
	}
	return &Repository[T]{db: db, opts: opts}
}

// DB returns the handle the repository is bound to.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// Get returns the entity with the given id that also satisfies f.
func (r *Repository[T]) Get(id int64, f filter.Expression) (*T, error) {
	q, err := r.query(f)
	if err != nil {
		return nil, err
	}
	var entity T
	if err := q.Where(clause.Eq{Column: column("id"), Value: id}).Take(&entity).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// FindOne returns the first entity in listing order that satisfies f.
func (r *Repository[T]) FindOne(f filter.Expression) (*T, error) {
	q, err := r.ordered(f)
	if err != nil {
		return nil, err
	}
	var entity T
	if err := q.Take(&entity).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// List returns one page of entities satisfying f in listing order.
func (r *Repository[T]) List(page pagination.LimitOffset, f filter.Expression) ([]T, error) {
	q, err := r.ordered(f)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := q.Scopes(pagination.Paginate(page)).Find(&out).Error; err != nil {
		return nil, r.translate(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// All returns every entity satisfying f in listing order.
func (r *Repository[T]) All(f filter.Expression) ([]T, error) {
	q, err := r.ordered(f)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, r.translate(err)
	}
	return out, nil
}

// Create stages a new entity; its generated id is filled in.
func (r *Repository[T]) Create(entity *T) error {
	if err := r.db.Omit(clause.Associations).Create(entity).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

// Save stages every column of an already-loaded entity.
func (r *Repository[T]) Save(entity *T) error {
	if err := r.db.Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

// Update applies fields to the entity with the given id that satisfies f and
// returns it with the new values assigned.
func (r *Repository[T]) Update(id int64, fields map[string]any, f filter.Expression) (*T, error) {
	entity, err := r.Get(id, f)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return entity, nil
	}
	if err := r.db.Model(entity).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return nil, r.translate(err)
	}
	return entity, nil
}

// Delete removes the entity with the given id that satisfies f.
func (r *Repository[T]) Delete(id int64, f filter.Expression) error {
	entity, err := r.Get(id, f)
	if err != nil {
		return err
	}
	if err := r.db.Delete(entity).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *Repository[T]) query(f filter.Expression) (*gorm.DB, error) {
	expr, joins, err := filter.Compile(r.opts.Whitelist, f)
	if err != nil {
		return nil, err
	}

	q := r.db.Model(new(T))
	if r.opts.Scope != nil {
		q = q.Scopes(r.opts.Scope)
	}
	q, err = filter.ApplyJoins(q, joins, r.opts.Joins, r.opts.Preload)
	if err != nil {
		return nil, err
	}
	if expr != nil {
		q = q.Where(expr)
	}
	return q, nil
}

func (r *Repository[T]) ordered(f filter.Expression) (*gorm.DB, error) {
	q, err := r.query(f)
	if err != nil {
		return nil, err
	}
	for _, o := range r.opts.Order {
		q = q.Order(o)
	}
	return q, nil
}

func (r *Repository[T]) translate(err error) error {
	return translateError(err, r.opts.NotFound)
}

// translateError maps storage errors onto application errors so no driver
// error type leaves the repository layer.
func translateError(err error, notFound *apperrors.AppError) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isConstraintViolation(err):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}
	// sqlite reports "UNIQUE constraint failed", "FOREIGN KEY constraint failed", ...
	return strings.Contains(err.Error(), "constraint failed")
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}
