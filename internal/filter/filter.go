// Package filter compiles caller-supplied filter trees into gorm clause
// expressions. Field names are resolved through a per-entity whitelist and
// values are always bound as parameters, so nothing the caller sends is ever
// spliced into SQL text.
package filter

import (
	"strings"
)

// Logic joins the children of a group.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Condition is a single field/operator/value triple.
type Condition struct {
	Field string
	Op    string
	Value any
}

// Expression is either a single Condition or a group of child expressions.
// The zero value is an empty filter that matches everything.
type Expression struct {
	Condition *Condition
	Logic     Logic
	Children  []Expression

	// list marks a bare condition list, which may be empty.
	list bool
}

// Where builds a single-condition expression.
func Where(field, op string, value any) Expression {
	return Expression{Condition: &Condition{Field: field, Op: op, Value: value}}
}

// List builds a flat, implicitly AND-ed condition list.
func List(conds ...Condition) Expression {
	children := make([]Expression, 0, len(conds))
	for i := range conds {
		c := conds[i]
		children = append(children, Expression{Condition: &c})
	}
	return Expression{Logic: LogicAnd, Children: children, list: true}
}

// All builds an AND group.
func All(children ...Expression) Expression {
	return Expression{Logic: LogicAnd, Children: children}
}

// Any builds an OR group.
func Any(children ...Expression) Expression {
	return Expression{Logic: LogicOr, Children: children}
}

// IsEmpty reports whether the expression places no constraint at all.
func (e Expression) IsEmpty() bool {
	if e.Condition != nil || len(e.Children) > 0 {
		return false
	}
	return e.list || e.Logic == ""
}

// And returns e constrained by every expression in others. The caller's
// tree is kept intact as one child so an OR inside it cannot escape the
// added constraints.
func (e Expression) And(others ...Expression) Expression {
	if e.IsEmpty() {
		return All(others...)
	}
	return All(append([]Expression{e}, others...)...)
}

// Operator names accepted by the compiler.
const (
	OpEq        = "="
	OpEqEq      = "=="
	OpNe        = "!="
	OpNeAlt     = "<>"
	OpGt        = ">"
	OpGte       = ">="
	OpLt        = "<"
	OpLte       = "<="
	OpIn        = "in"
	OpNotIn     = "not in"
	OpLike      = "like"
	OpNotLike   = "not like"
	OpILike     = "ilike"
	OpNotILike  = "not ilike"
	OpBetween   = "between"
	OpIsNull    = "is null"
	OpIsNotNull = "is not null"
	OpTrue      = "true"
	OpFalse     = "false"
)

type arity int

const (
	arityScalar arity = iota
	arityList
	arityPair
	arityNone
)

var operators = map[string]arity{
	OpEq:        arityScalar,
	OpEqEq:      arityScalar,
	OpNe:        arityScalar,
	OpNeAlt:     arityScalar,
	OpGt:        arityScalar,
	OpGte:       arityScalar,
	OpLt:        arityScalar,
	OpLte:       arityScalar,
	OpIn:        arityList,
	OpNotIn:     arityList,
	OpLike:      arityScalar,
	OpNotLike:   arityScalar,
	OpILike:     arityScalar,
	OpNotILike:  arityScalar,
	OpBetween:   arityPair,
	OpIsNull:    arityNone,
	OpIsNotNull: arityNone,
	OpTrue:      arityNone,
	OpFalse:     arityNone,
}

// NormalizeOp lower-cases op and collapses inner whitespace.
func NormalizeOp(op string) string {
	return strings.ToLower(strings.Join(strings.Fields(op), " "))
}

// Operators returns the accepted operator names.
func Operators() []string {
	ops := make([]string, 0, len(operators))
	for op := range operators {
		ops = append(ops, op)
	}
	return ops
}

func isLikeOp(op string) bool {
	switch op {
	case OpLike, OpNotLike, OpILike, OpNotILike:
		return true
	}
	return false
}
