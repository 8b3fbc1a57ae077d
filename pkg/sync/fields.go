package sync

import (
	"fmt"

	"github.com/stocksync/stocksync/pkg/types"
)

// Inventory table fields.
const (
	FieldSKU                 = "SKU"
	FieldInStock             = "In Stock"
	FieldInbound             = "Inbound"
	FieldUnitCost            = "Unit Cost"
	FieldUnitCostOverride    = "Unit Cost Override"
	FieldMedianUSAPostage    = "Median USA Postage + Labor"
	FieldMedianGlobalPostage = "Median Global Postage + Labor"
	FieldUSAShipments        = "USA Shipments"
	FieldGlobalShipments     = "Global Shipments"
)

// Shipment request table fields.
const (
	FieldService         = "Warehouse–Service"
	FieldPostageCost     = "Warehouse–Postage Cost"
	FieldLaborCost       = "Warehouse–Labor Cost"
	FieldItemsOrdered    = "Warehouse–Items Ordered JSON"
	FieldTrackingNumber  = "Warehouse–Tracking Number"
	FieldTrackingURL     = "Warehouse–Tracking URL"
	FieldTrackerID       = "Warehouse–Tracker ID"
	FieldDeliveredAt     = "Warehouse–Delivered At"
	FieldSendToWarehouse = "Send To Warehouse"
	FieldFirstName       = "First Name"
)

// ShipmentFormula selects shipment requests that still need enrichment. It
// is the record store rendering of Eligible.
var ShipmentFormula = fmt.Sprintf(
	"AND({%s}, OR({%s} = BLANK(), {%s} = BLANK(), {%s} = BLANK(), AND(NOT({%s} = BLANK()), {%s} = BLANK())))",
	FieldSendToWarehouse,
	FieldService,
	FieldItemsOrdered,
	FieldLaborCost,
	FieldTrackerID,
	FieldDeliveredAt,
)

// Eligible reports whether a shipment request needs enrichment: it is flagged
// for the warehouse and either its capture fields are incomplete or it has a
// tracker awaiting delivery.
func Eligible(r types.Record) bool {
	if !r.Bool(FieldSendToWarehouse) {
		return false
	}
	return r.IsEmpty(FieldService) ||
		r.IsEmpty(FieldItemsOrdered) ||
		r.IsEmpty(FieldLaborCost) ||
		(!r.IsEmpty(FieldTrackerID) && r.IsEmpty(FieldDeliveredAt))
}
