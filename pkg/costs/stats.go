package costs

import (
	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/pkg/types"
)

// ShipmentStats summarizes the shipments that carried one SKU.
type ShipmentStats struct {
	DomesticMedian decimal.NullDecimal
	GlobalMedian   decimal.NullDecimal
	DomesticCount  int
	GlobalCount    int
}

// Stats computes per-destination medians and counts. Shipments with an
// unparseable shipping amount count toward the totals but not the medians.
func Stats(shipments []types.EnrichedShipment, domestic CountrySet) ShipmentStats {
	home, abroad := Partition(shipments, domestic)
	return ShipmentStats{
		DomesticMedian: Median(costsOf(home)),
		GlobalMedian:   Median(costsOf(abroad)),
		DomesticCount:  len(home),
		GlobalCount:    len(abroad),
	}
}

func costsOf(shipments []types.EnrichedShipment) []decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(shipments))
	for _, s := range shipments {
		if c, ok := ShipmentCost(s); ok {
			values = append(values, c)
		}
	}
	return values
}

// GroupBySKU indexes shipments by every SKU their order contains. A shipment
// appears once per distinct SKU.
func GroupBySKU(shipments []types.EnrichedShipment) map[string][]types.EnrichedShipment {
	groups := make(map[string][]types.EnrichedShipment)
	for _, s := range shipments {
		seen := make(map[string]bool, len(s.Order.Items))
		for _, item := range s.Order.Items {
			if item.SKU == "" || seen[item.SKU] {
				continue
			}
			seen[item.SKU] = true
			groups[item.SKU] = append(groups[item.SKU], s)
		}
	}
	return groups
}
