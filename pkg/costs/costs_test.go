package costs

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/stocksync/pkg/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = d(v)
	}
	return out
}

func order(skus ...string) types.Order {
	o := types.Order{Number: "1001"}
	for _, sku := range skus {
		o.Items = append(o.Items, types.OrderLineItem{SKU: sku, Quantity: 1})
	}
	return o
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []decimal.Decimal
		expected string
	}{
		{"single", decimals("7.5"), "7.5"},
		{"odd", decimals("3", "1", "2"), "2"},
		{"even", decimals("1", "2", "3", "4"), "2.5"},
		{"even unsorted", decimals("4", "1", "3", "2"), "2.5"},
		{"duplicates", decimals("5", "5", "1"), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.values)
			require.True(t, got.Valid)
			assert.Equal(t, tt.expected, got.Decimal.String())
		})
	}

	t.Run("empty is null", func(t *testing.T) {
		assert.False(t, Median(nil).Valid)
		assert.False(t, Median([]decimal.Decimal{}).Valid)
	})

	t.Run("bounded by min and max", func(t *testing.T) {
		values := decimals("9.10", "0.50", "3.33", "12", "4.75", "4.75")
		got := Median(values)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.GreaterThanOrEqual(d("0.50")))
		assert.True(t, got.Decimal.LessThanOrEqual(d("12")))
	})

	t.Run("does not reorder input", func(t *testing.T) {
		values := decimals("3", "1", "2")
		Median(values)
		assert.Equal(t, "3", values[0].String())
	})
}

func TestLaborCost(t *testing.T) {
	assert.True(t, LaborCost(types.Order{}).Equal(d("1.80")))
	assert.True(t, LaborCost(order("A")).Equal(d("2.00")))
	assert.True(t, LaborCost(order("A", "B", "C")).Equal(d("2.40")))
}

func TestUnitCosts(t *testing.T) {
	orders := []types.PurchaseOrder{
		{ID: 1, Items: []types.PurchaseOrderLineItem{
			{SKU: "X", Description: "Widget", Quantity: d("10"), UnitCost: d("2.00")},
		}},
		{ID: 2, Items: []types.PurchaseOrderLineItem{
			{SKU: "X", Quantity: d("5"), UnitCost: d("2.60")},
			{SKU: "Y", Description: "Free sample", Quantity: d("0"), UnitCost: d("9.99")},
			{SKU: "", Quantity: d("3"), UnitCost: d("1")},
		}},
	}

	got := UnitCosts(orders)
	require.Len(t, got, 2)

	x := got["X"]
	require.NotNil(t, x)
	assert.Equal(t, "Widget", x.Description)
	assert.True(t, x.TotalOrdered.Equal(d("15")))
	assert.True(t, x.TotalCost.Equal(d("33")))
	require.True(t, x.WeightedUnitCost.Valid)
	assert.True(t, x.WeightedUnitCost.Decimal.Equal(d("2.20")))

	y := got["Y"]
	require.NotNil(t, y)
	assert.False(t, y.WeightedUnitCost.Valid, "zero quantity has no unit cost")

	assert.Empty(t, UnitCosts(nil))
}

func TestNullify(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"nil", nil, nil},
		{"zero int", 0, nil},
		{"zero float", 0.0, nil},
		{"NaN", math.NaN(), nil},
		{"empty string", "", nil},
		{"false", false, nil},
		{"zero decimal", decimal.Zero, nil},
		{"null decimal", decimal.NullDecimal{}, nil},
		{"int", 5, 5},
		{"float", 2.5, 2.5},
		{"string", "UPS (Ground)", "UPS (Ground)"},
		{"true", true, true},
		{"decimal", d("2.20"), 2.2},
		{"valid null decimal", decimal.NewNullDecimal(d("3.5")), 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Nullify(tt.input))
		})
	}
}

func TestShipmentCost(t *testing.T) {
	s := types.EnrichedShipment{
		Shipment: types.Shipment{ShippingHandling: "$4.10"},
		Order:    order("A", "B"),
	}
	cost, ok := ShipmentCost(s)
	require.True(t, ok)
	assert.True(t, cost.Equal(d("6.30")))

	s.ShippingHandling = "n/a"
	_, ok = ShipmentCost(s)
	assert.False(t, ok)
}

func TestPartitionAndStats(t *testing.T) {
	domestic := NewCountrySet("US", " usa ")
	assert.True(t, domestic.Contains("us"))
	assert.True(t, domestic.Contains("USA"))
	assert.False(t, domestic.Contains("CA"))

	shipments := []types.EnrichedShipment{
		{Shipment: types.Shipment{Country: "US", ShippingHandling: "4.00"}, Order: order("A")},
		{Shipment: types.Shipment{Country: "us ", ShippingHandling: "6.00"}, Order: order("A")},
		{Shipment: types.Shipment{Country: "CA", ShippingHandling: "10.00"}, Order: order("A")},
		{Shipment: types.Shipment{Country: "DE", ShippingHandling: ""}, Order: order("A")},
	}

	home, abroad := Partition(shipments, domestic)
	assert.Len(t, home, 2)
	assert.Len(t, abroad, 2)

	stats := Stats(shipments, domestic)
	assert.Equal(t, 2, stats.DomesticCount)
	assert.Equal(t, 2, stats.GlobalCount)
	require.True(t, stats.DomesticMedian.Valid)
	assert.True(t, stats.DomesticMedian.Decimal.Equal(d("7.00")))
	require.True(t, stats.GlobalMedian.Valid)
	assert.True(t, stats.GlobalMedian.Decimal.Equal(d("12.00")), "unparseable cost is left out of the median")

	empty := Stats(nil, domestic)
	assert.False(t, empty.DomesticMedian.Valid)
	assert.Zero(t, empty.GlobalCount)
}

func TestGroupBySKU(t *testing.T) {
	a := types.EnrichedShipment{Shipment: types.Shipment{OrderNumber: "1"}, Order: order("A", "B", "A")}
	b := types.EnrichedShipment{Shipment: types.Shipment{OrderNumber: "2"}, Order: order("B")}

	groups := GroupBySKU([]types.EnrichedShipment{a, b})
	assert.Len(t, groups["A"], 1)
	assert.Len(t, groups["B"], 2)
	assert.Empty(t, groups["C"])
}
