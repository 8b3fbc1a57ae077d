// Package costs derives the financial metrics written back to the record
// store: weighted-average unit cost per SKU and the median shipping plus labor
// cost of the shipments that carried each SKU.
package costs

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/pkg/types"
)

// Labor cost charged by the warehouse per shipment.
var (
	BaseLaborCost    = decimal.RequireFromString("1.80")
	PerItemLaborCost = decimal.RequireFromString("0.20")
)

// UnitCostRecord accumulates purchase-order lines for one SKU.
type UnitCostRecord struct {
	SKU              string              `json:"sku" yaml:"sku"`
	Description      string              `json:"description" yaml:"description"`
	TotalOrdered     decimal.Decimal     `json:"total_ordered" yaml:"total_ordered"`
	TotalCost        decimal.Decimal     `json:"total_cost" yaml:"total_cost"`
	WeightedUnitCost decimal.NullDecimal `json:"weighted_unit_cost" yaml:"weighted_unit_cost"`
}

// UnitCosts folds every line of every purchase order into one record per SKU.
// A SKU whose total ordered quantity is zero has a null unit cost.
func UnitCosts(orders []types.PurchaseOrder) map[string]*UnitCostRecord {
	records := make(map[string]*UnitCostRecord)
	for _, po := range orders {
		for _, line := range po.Items {
			if line.SKU == "" {
				continue
			}
			rec, ok := records[line.SKU]
			if !ok {
				rec = &UnitCostRecord{SKU: line.SKU}
				records[line.SKU] = rec
			}
			if rec.Description == "" {
				rec.Description = line.Description
			}
			rec.TotalOrdered = rec.TotalOrdered.Add(line.Quantity)
			rec.TotalCost = rec.TotalCost.Add(line.Quantity.Mul(line.UnitCost))
		}
	}

	for _, rec := range records {
		if rec.TotalOrdered.IsZero() {
			rec.WeightedUnitCost = decimal.NullDecimal{}
			continue
		}
		rec.WeightedUnitCost = decimal.NewNullDecimal(rec.TotalCost.Div(rec.TotalOrdered))
	}
	return records
}

// Median returns the median of values, averaging the two middle values when
// the count is even. It is null for an empty slice.
func Median(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return decimal.NewNullDecimal(sorted[mid])
	}
	return decimal.NewNullDecimal(sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)))
}

// LaborCost is the warehouse labor charge for picking and packing order.
func LaborCost(order types.Order) decimal.Decimal {
	return BaseLaborCost.Add(PerItemLaborCost.Mul(decimal.NewFromInt(int64(len(order.Items)))))
}

// ShipmentCost is shipping and handling plus labor. It reports false when the
// shipping amount cannot be parsed.
func ShipmentCost(s types.EnrichedShipment) (decimal.Decimal, bool) {
	shipping, err := s.ShippingCost()
	if err != nil {
		return decimal.Decimal{}, false
	}
	return shipping.Add(LaborCost(s.Order)), true
}

// Nullify maps falsy values to nil so the record store clears the field.
// Decimals become float64 for the JSON payload.
func Nullify(v any) any {
	if types.IsFalsy(v) {
		return nil
	}
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case decimal.NullDecimal:
		return x.Decimal.InexactFloat64()
	case *decimal.Decimal:
		return x.InexactFloat64()
	}
	return v
}

// CountrySet matches destination countries case-insensitively.
type CountrySet map[string]struct{}

// NewCountrySet builds a set from country codes or names.
func NewCountrySet(countries ...string) CountrySet {
	set := make(CountrySet, len(countries))
	for _, c := range countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// Contains reports whether country is in the set.
func (s CountrySet) Contains(country string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(country))]
	return ok
}

// Partition splits shipments into those bound for a domestic country and the rest.
func Partition(shipments []types.EnrichedShipment, domestic CountrySet) (home, abroad []types.EnrichedShipment) {
	for _, s := range shipments {
		if domestic.Contains(s.Country) {
			home = append(home, s)
		} else {
			abroad = append(abroad, s)
		}
	}
	return home, abroad
}
