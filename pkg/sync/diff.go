package sync

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/pkg/types"
)

// minimalDiff drops every payload field whose new value the row already holds.
func minimalDiff(current types.Record, payload map[string]any) map[string]any {
	diff := make(map[string]any, len(payload))
	for name, next := range payload {
		cur, _ := current.Get(name)
		if sameValue(cur, next) {
			continue
		}
		diff[name] = next
	}
	return diff
}

// sameValue compares a stored field with a payload value. Numbers compare by
// value regardless of representation and nil matches any empty field.
func sameValue(current, next any) bool {
	if next == nil {
		return types.IsFalsy(current)
	}

	if n, ok := numeric(next); ok {
		c, ok := numeric(current)
		return ok && c.Equal(n)
	}

	switch n := next.(type) {
	case string:
		c, ok := current.(string)
		return ok && c == n
	case bool:
		c, ok := current.(bool)
		return ok && c == n
	}
	return false
}

func numeric(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case decimal.Decimal:
		return x, true
	}
	return decimal.Decimal{}, false
}
