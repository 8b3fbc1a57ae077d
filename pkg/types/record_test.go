package types_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stocksync/stocksync/pkg/types"
)

func TestIsFalsy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"string", "x", false},
		{"false", false, true},
		{"true", true, false},
		{"zero int", 0, true},
		{"int", 42, false},
		{"zero float", 0.0, true},
		{"NaN", math.NaN(), true},
		{"float", 1.5, false},
		{"zero decimal", decimal.Zero, true},
		{"decimal", decimal.RequireFromString("2.20"), false},
		{"invalid null decimal", decimal.NullDecimal{}, true},
		{"valid null decimal", decimal.NewNullDecimal(decimal.NewFromInt(3)), false},
		{"slice", []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.IsFalsy(tt.value))
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	rec := types.Record{
		ID: "rec1",
		Fields: map[string]any{
			"SKU":                "ABC",
			"Unit Cost Override": 5.0,
			"Text Cost":          " 2.50 ",
			"Send To Warehouse":  true,
			"In Stock":           0.0,
		},
	}

	assert.Equal(t, "ABC", rec.String("SKU"))
	assert.Equal(t, "5", rec.String("Unit Cost Override"))
	assert.Equal(t, "", rec.String("Missing"))

	override := rec.Number("Unit Cost Override")
	assert.True(t, override.Valid)
	assert.True(t, override.Decimal.Equal(decimal.NewFromInt(5)))

	text := rec.Number("Text Cost")
	assert.True(t, text.Valid)
	assert.Equal(t, "2.5", text.Decimal.String())

	assert.False(t, rec.Number("SKU").Valid)
	assert.False(t, rec.Number("Missing").Valid)

	assert.True(t, rec.Bool("Send To Warehouse"))
	assert.False(t, rec.Bool("SKU"))

	assert.True(t, rec.IsEmpty("In Stock"))
	assert.True(t, rec.IsEmpty("Missing"))
	assert.False(t, rec.IsEmpty("SKU"))
}
