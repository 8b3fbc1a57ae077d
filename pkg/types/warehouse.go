package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ReportKind identifies a CSV report exposed by the warehouse API.
type ReportKind string

const (
	// ReportShipments is the per-client shipment detail report.
	ReportShipments ReportKind = "shipment/ship_client"

	// ReportOrders is the fulfillment order detail report (one row per line item).
	ReportOrders ReportKind = "fulfillment/ful_order_detail"
)

// String returns the string representation of a report kind.
func (k ReportKind) String() string {
	return string(k)
}

// InventoryItem is the stock level of one SKU.
type InventoryItem struct {
	SKU         string
	Description string
	Sellable    int
	Inbound     int
}

// inventoryItemJSON mirrors the nested wire shape {"item": {"sku": ...}, "sellable": n}.
type inventoryItemJSON struct {
	Item struct {
		SKU         string `json:"sku"`
		Description string `json:"description"`
	} `json:"item"`
	Sellable int `json:"sellable"`
	Inbound  int `json:"inbound"`
}

// UnmarshalJSON flattens the nested item object.
func (i *InventoryItem) UnmarshalJSON(data []byte) error {
	var raw inventoryItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = InventoryItem{
		SKU:         raw.Item.SKU,
		Description: raw.Item.Description,
		Sellable:    raw.Sellable,
		Inbound:     raw.Inbound,
	}
	return nil
}

// MarshalJSON writes the nested wire shape back out.
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	var raw inventoryItemJSON
	raw.Item.SKU = i.SKU
	raw.Item.Description = i.Description
	raw.Sellable = i.Sellable
	raw.Inbound = i.Inbound
	return json.Marshal(raw)
}

// PurchaseOrder is a warehouse purchase order with its line items.
type PurchaseOrder struct {
	ID     int                     `json:"id"`
	Number string                  `json:"orderNumber"`
	Items  []PurchaseOrderLineItem `json:"items"`
}

// PurchaseOrderLineItem is one SKU line of a purchase order.
type PurchaseOrderLineItem struct {
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
}

// Order is a customer order keyed by its order number.
type Order struct {
	Number string          `json:"orderNumber"`
	Items  []OrderLineItem `json:"items"`
}

// OrderLineItem is one SKU line of a customer order.
type OrderLineItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Contains reports whether the order has a line item for sku.
func (o Order) Contains(sku string) bool {
	for _, item := range o.Items {
		if item.SKU == sku {
			return true
		}
	}
	return false
}

// Shipment is one row of the shipment report.
type Shipment struct {
	OrderNumber      string
	Carrier          string
	Service          string
	ShippingHandling string
	Country          string
	TrackingNumber   string
	TrackingURL      string
}

// ShippingCost parses the shipping and handling amount.
func (s Shipment) ShippingCost() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s.ShippingHandling), "$"))
}

// ServiceLabel renders "Carrier (Service)", or just the carrier when no service is reported.
func (s Shipment) ServiceLabel() string {
	if s.Service == "" {
		return s.Carrier
	}
	return s.Carrier + " (" + s.Service + ")"
}

// EnrichedShipment is a shipment joined with the order it fulfilled.
type EnrichedShipment struct {
	Shipment
	Order Order
}
