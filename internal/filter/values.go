package filter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ValueType tells the compiler how to coerce condition values for a field.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeDecimal
	TypeBool
	TypeDate
	TypeTime
)

const dateLayout = "2006-01-02"

// coerce converts a decoded JSON (or programmatic) value into the Go type
// bound for the column. ok is false when the value cannot represent one.
func (t ValueType) coerce(v any) (any, bool) {
	switch t {
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, true
		case json.Number:
			return x.String(), true
		}
	case TypeInt:
		return toInt64(v)
	case TypeDecimal:
		return toDecimal(v)
	case TypeBool:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			b, err := strconv.ParseBool(x)
			return b, err == nil
		}
	case TypeDate:
		tm, ok := toTime(v)
		if !ok {
			return nil, false
		}
		return time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC), true
	case TypeTime:
		return toTime(v)
	}
	return nil, false
}

func toInt64(v any) (any, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return nil, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return nil, false
}

func toDecimal(v any) (any, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	}
	return nil, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case datatypes.Date:
		return time.Time(x).UTC(), true
	case string:
		s := strings.TrimSpace(x)
		if tm, err := time.Parse(time.RFC3339, s); err == nil {
			return tm.UTC(), true
		}
		if tm, err := time.Parse(dateLayout, s); err == nil {
			return tm, true
		}
	}
	return time.Time{}, false
}
