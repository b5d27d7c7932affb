package filter

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "moneybot/internal/errors"
)

// JoinSpec describes how to reach a related table.
type JoinSpec struct {
	// Relation is the gorm association name, used when the related row is
	// eager-loaded alongside the result.
	Relation string
	// SQL is the explicit join used when the relation is only filtered on.
	// It must alias the table with the join key.
	SQL string
}

// JoinSpecs maps join keys to their specs.
type JoinSpecs map[string]JoinSpec

// ApplyJoins adds every eager relation in preload as a joined load and every
// other required join as a plain JOIN. A key listed in both is joined once.
func ApplyJoins(db *gorm.DB, joins Joins, specs JoinSpecs, preload []string) (*gorm.DB, error) {
	loaded := make(map[string]bool, len(preload))
	for _, key := range preload {
		spec, ok := specs[key]
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("no join spec for %q", key))
		}
		db = db.Joins(spec.Relation)
		loaded[key] = true
	}

	for _, key := range joins.Keys() {
		if loaded[key] {
			continue
		}
		spec, ok := specs[key]
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("no join spec for %q", key))
		}
		db = db.Joins(spec.SQL)
	}
	return db, nil
}
