// Package types provides the domain data model shared by the warehouse,
// tracking and record store clients and by the reconciliation pipeline.
//
// Warehouse types (InventoryItem, PurchaseOrder, Order, Shipment) are read-only
// snapshots of the warehouse API. Record is a mutable row of the record store
// and is only ever changed through partial field updates.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
