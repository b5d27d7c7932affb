package filter

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gorm/clause"

	apperrors "moneybot/internal/errors"
)

// Field maps a public filter name onto a column, optionally reached through
// a join.
type Field struct {
	Column clause.Column
	Join   string
	Type   ValueType
}

// Local returns a field on the queried entity's own table.
func Local(column string, typ ValueType) Field {
	return Field{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Type: typ}
}

// Joined returns a field on a joined table; join is both the join key and
// the alias the joined table is addressed by.
func Joined(join, column string, typ ValueType) Field {
	return Field{Column: clause.Column{Table: join, Name: column}, Join: join, Type: typ}
}

// Whitelist is the set of filterable fields for one entity.
type Whitelist map[string]Field

// Joins is the set of join keys a compiled filter needs.
type Joins map[string]struct{}

// Has reports whether key is required.
func (j Joins) Has(key string) bool {
	_, ok := j[key]
	return ok
}

// Keys returns the join keys in a stable order.
func (j Joins) Keys() []string {
	keys := make([]string, 0, len(j))
	for k := range j {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile turns e into a gorm expression using only whitelisted columns.
// The returned expression is nil when e places no constraint.
func Compile(w Whitelist, e Expression) (clause.Expression, Joins, error) {
	c := compiler{whitelist: w, joins: Joins{}}
	expr, err := c.node(e)
	if err != nil {
		return nil, nil, err
	}
	return expr, c.joins, nil
}

type compiler struct {
	whitelist Whitelist
	joins     Joins
}

func (c *compiler) node(e Expression) (clause.Expression, error) {
	if e.Condition != nil {
		return c.condition(*e.Condition)
	}

	if len(e.Children) == 0 {
		if e.IsEmpty() {
			return nil, nil
		}
		return nil, apperrors.WithMessage(apperrors.ErrInvalidConditionValue,
			fmt.Sprintf("%q group must contain at least one condition", e.Logic))
	}

	exprs := make([]clause.Expression, 0, len(e.Children))
	for _, child := range e.Children {
		expr, err := c.node(child)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}
	}

	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
		// gorm renders a one-element OR group as a bare "OR x" when it is
		// combined with other where clauses, so never emit one.
		return exprs[0], nil
	}
	if e.Logic == LogicOr {
		return clause.Or(exprs...), nil
	}
	return clause.And(exprs...), nil
}

func (c *compiler) condition(cond Condition) (clause.Expression, error) {
	field, ok := c.whitelist[cond.Field]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrFilterFieldNotAllowed,
			fmt.Sprintf("filtering by %q is not allowed", cond.Field))
	}

	op := NormalizeOp(cond.Op)
	shape, ok := operators[op]
	if !ok {
		return nil, unknownOperator(cond.Op)
	}

	if field.Join != "" {
		c.joins[field.Join] = struct{}{}
	}
	col := field.Column

	switch shape {
	case arityNone:
		if cond.Value != nil {
			return nil, invalidValue(cond, "takes no value")
		}
		switch op {
		case OpIsNull:
			return clause.Eq{Column: col, Value: nil}, nil
		case OpIsNotNull:
			return clause.Neq{Column: col, Value: nil}, nil
		}
		if field.Type != TypeBool {
			return nil, invalidValue(cond, "applies to boolean fields only")
		}
		return clause.Eq{Column: col, Value: op == OpTrue}, nil

	case arityList:
		values, err := c.list(cond, field, 1)
		if err != nil {
			return nil, err
		}
		in := clause.IN{Column: col, Values: values}
		if op == OpNotIn {
			return clause.Not(in), nil
		}
		return in, nil

	case arityPair:
		values, err := c.list(cond, field, 2)
		if err != nil {
			return nil, err
		}
		return clause.Expr{SQL: "? BETWEEN ? AND ?", Vars: []any{col, values[0], values[1]}}, nil
	}

	if cond.Value == nil || isList(cond.Value) {
		return nil, invalidValue(cond, "needs a single non-null value")
	}
	if isLikeOp(op) {
		pattern, ok := cond.Value.(string)
		if !ok || field.Type != TypeString {
			return nil, invalidValue(cond, "needs a text field and a string pattern")
		}
		switch op {
		case OpLike:
			return clause.Like{Column: col, Value: pattern}, nil
		case OpNotLike:
			return clause.Not(clause.Like{Column: col, Value: pattern}), nil
		case OpILike:
			return clause.Expr{SQL: "LOWER(?) LIKE LOWER(?)", Vars: []any{col, pattern}}, nil
		default:
			return clause.Expr{SQL: "LOWER(?) NOT LIKE LOWER(?)", Vars: []any{col, pattern}}, nil
		}
	}

	value, ok := field.Type.coerce(cond.Value)
	if !ok {
		return nil, invalidValue(cond, "has the wrong type")
	}

	switch op {
	case OpEq, OpEqEq:
		return clause.Eq{Column: col, Value: value}, nil
	case OpNe, OpNeAlt:
		return clause.Neq{Column: col, Value: value}, nil
	case OpGt:
		return clause.Gt{Column: col, Value: value}, nil
	case OpGte:
		return clause.Gte{Column: col, Value: value}, nil
	case OpLt:
		return clause.Lt{Column: col, Value: value}, nil
	default:
		return clause.Lte{Column: col, Value: value}, nil
	}
}

// list validates a list value and coerces each element. exact > 1 demands
// that many elements, otherwise at least one.
func (c *compiler) list(cond Condition, field Field, exact int) ([]any, error) {
	if !isList(cond.Value) {
		return nil, invalidValue(cond, "needs a list value")
	}
	rv := reflect.ValueOf(cond.Value)
	n := rv.Len()
	if n == 0 || (exact > 1 && n != exact) {
		if exact > 1 {
			return nil, invalidValue(cond, fmt.Sprintf("needs exactly %d values", exact))
		}
		return nil, invalidValue(cond, "needs a non-empty list")
	}

	values := make([]any, 0, n)
	for i := 0; i < n; i++ {
		item := rv.Index(i).Interface()
		if item == nil {
			return nil, invalidValue(cond, "cannot contain null")
		}
		v, ok := field.Type.coerce(item)
		if !ok {
			return nil, invalidValue(cond, "contains a value of the wrong type")
		}
		values = append(values, v)
	}
	return values, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func invalidValue(cond Condition, reason string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidConditionValue,
		fmt.Sprintf("%s %s %s", cond.Field, NormalizeOp(cond.Op), reason))
}

func unknownOperator(op string) error {
	ops := Operators()
	sort.Strings(ops)
	return apperrors.WithMessage(apperrors.ErrFilterOperatorNotAllowed,
		fmt.Sprintf("operator %q is not supported (use one of: %s)", op, strings.Join(ops, ", ")))
}
