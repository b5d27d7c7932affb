package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "moneybot/internal/errors"
)

// UnmarshalJSON accepts either a bare list of conditions (implicit AND) or an
// object holding exactly one of "and"/"or". Unknown operators are rejected
// here, before any whitelist is consulted.
func (e *Expression) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = Expression{}
		return nil
	}

	if trimmed[0] == '[' {
		children, err := decodeList(trimmed)
		if err != nil {
			return err
		}
		*e = Expression{Logic: LogicAnd, Children: children, list: true}
		return nil
	}

	node, err := decodeNode(trimmed)
	if err != nil {
		return err
	}
	*e = node
	return nil
}

// MarshalJSON writes the same wire shape UnmarshalJSON reads.
func (e Expression) MarshalJSON() ([]byte, error) {
	if e.Condition != nil {
		return json.Marshal(conditionWire{Field: e.Condition.Field, Op: e.Condition.Op, Value: e.Condition.Value})
	}
	if e.IsEmpty() && len(e.Children) == 0 {
		return []byte("[]"), nil
	}
	if e.list {
		return json.Marshal(e.Children)
	}
	return json.Marshal(map[Logic][]Expression{e.Logic: e.Children})
}

type conditionWire struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value,omitempty"`
}

func decodeList(data []byte) ([]Expression, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	children := make([]Expression, 0, len(raw))
	for _, item := range raw {
		child, err := decodeNode(bytes.TrimSpace(item))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func decodeNode(data []byte) (Expression, error) {
	if len(data) > 0 && data[0] == '[' {
		children, err := decodeList(data)
		if err != nil {
			return Expression{}, err
		}
		return Expression{Logic: LogicAnd, Children: children, list: true}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Expression{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "filter nodes must be objects or lists")
	}

	andRaw, hasAnd := obj[string(LogicAnd)]
	orRaw, hasOr := obj[string(LogicOr)]
	switch {
	case hasAnd && hasOr:
		return Expression{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "a filter group takes exactly one of and/or")
	case hasAnd || hasOr:
		if len(obj) != 1 {
			return Expression{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "a filter group takes no keys besides and/or")
		}
		logic, raw := LogicAnd, andRaw
		if hasOr {
			logic, raw = LogicOr, orRaw
		}
		children, err := decodeList(bytes.TrimSpace(raw))
		if err != nil {
			return Expression{}, err
		}
		return Expression{Logic: logic, Children: children}, nil
	}

	cond, err := decodeCondition(obj)
	if err != nil {
		return Expression{}, err
	}
	return Expression{Condition: cond}, nil
}

func decodeCondition(obj map[string]json.RawMessage) (*Condition, error) {
	for key := range obj {
		switch key {
		case "field", "op", "value":
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown filter key %q", key))
		}
	}

	var cond Condition
	if err := json.Unmarshal(obj["field"], &cond.Field); err != nil || cond.Field == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "filter condition needs a field name")
	}
	if err := json.Unmarshal(obj["op"], &cond.Op); err != nil || cond.Op == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "filter condition needs an operator")
	}
	cond.Op = NormalizeOp(cond.Op)
	if _, ok := operators[cond.Op]; !ok {
		return nil, unknownOperator(cond.Op)
	}

	if raw, ok := obj["value"]; ok {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&cond.Value); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidConditionValue, err)
		}
	}
	return &cond, nil
}
