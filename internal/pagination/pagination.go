package pagination

import (
	"gorm.io/gorm"
)

const (
	// DefaultLimit is applied when a caller does not ask for a page size.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller can request.
	MaxLimit = 100
)

// LimitOffset holds pagination parameters parsed from query strings.
type LimitOffset struct {
	Limit  int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" json:"offset" binding:"omitempty,min=0"`
}

// New returns a LimitOffset with defaults and bounds applied.
func New(limit, offset int) LimitOffset {
	p := LimitOffset{Limit: limit, Offset: offset}
	p.Defaults()
	return p
}

// Defaults fills in the default limit and clamps out-of-range values.
func (p *LimitOffset) Defaults() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Page wraps a list of items with the window that produced it.
type Page[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPage creates a Page, never returning a nil Data slice.
func NewPage[T any](data []T, p LimitOffset) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Limit: p.Limit, Offset: p.Offset}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET.
func Paginate(p LimitOffset) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p.Defaults()
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
