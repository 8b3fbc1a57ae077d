package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is a row of the record store. Empty fields are absent from Fields.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// Get returns the raw value of a field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// String returns a text field, or "" when absent or not text.
func (r Record) String(name string) string {
	switch v := r.Fields[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns a numeric field. Text fields holding a number are parsed.
func (r Record) Number(name string) decimal.NullDecimal {
	switch v := r.Fields[name].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case decimal.Decimal:
		return decimal.NewNullDecimal(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// Bool returns a checkbox field.
func (r Record) Bool(name string) bool {
	v, _ := r.Fields[name].(bool)
	return v
}

// IsEmpty reports whether a field is absent or holds a falsy value.
func (r Record) IsEmpty(name string) bool {
	return IsFalsy(r.Fields[name])
}

// IsFalsy reports whether v is indistinguishable from "unknown": nil, "",
// false, a zero or NaN number, a zero decimal or an invalid NullDecimal.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0 || math.IsNaN(x)
	case decimal.Decimal:
		return x.IsZero()
	case decimal.NullDecimal:
		return !x.Valid || x.Decimal.IsZero()
	case *decimal.Decimal:
		return x == nil || x.IsZero()
	default:
		return false
	}
}
