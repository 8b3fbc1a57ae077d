// Package sources defines the collaborators the sync pipeline reads from and
// writes to: the warehouse, the tracking service and the record store.
//
// Every collaborator is an interface so the pipeline can run against
// in-memory fakes in tests and against the HTTP clients in
// internal/sources in production.
//
// Example usage:
//
//	items, err := sources.Paginate(ctx, warehouse.ListInventory)
//	if err != nil {
//	    return err
//	}
//
//	for _, item := range items {
//	    fmt.Println(item.SKU, item.Sellable)
//	}
package sources

import (
	"context"

	"github.com/stocksync/stocksync/pkg/types"
)

// Page is one page of a paginated listing. Pages are numbered from 1.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Warehouse reads stock, purchase orders and reports from the warehouse
// management system.
type Warehouse interface {
	// ListInventory returns one page of stock levels.
	ListInventory(ctx context.Context, page int) (Page[types.InventoryItem], error)

	// ListPurchaseOrders returns one page of purchase orders.
	ListPurchaseOrders(ctx context.Context, page int) (Page[types.PurchaseOrder], error)

	// FetchReportCSV returns the raw CSV body of a report for the window.
	FetchReportCSV(ctx context.Context, kind types.ReportKind, window types.DateRange) ([]byte, error)

	// Shipments returns every row of the shipment report in report order. An
	// order shipped as several packages appears once per package.
	Shipments(ctx context.Context, window types.DateRange) ([]types.Shipment, error)

	// Orders returns the order detail report grouped into orders keyed by order number.
	Orders(ctx context.Context, window types.DateRange) (map[string]types.Order, error)

	// FetchOrder looks up a single customer order.
	FetchOrder(ctx context.Context, number string) (types.Order, error)
}

// Tracking creates and reads carrier trackers.
type Tracking interface {
	// DeriveTrackingURL guesses the carrier's public tracking page for a number.
	DeriveTrackingURL(number string) (string, bool)

	// CreateTracker registers a tracking number with the tracking service.
	CreateTracker(ctx context.Context, number string) (types.Tracker, error)

	// GetTracker reads an existing tracker with its event history.
	GetTracker(ctx context.Context, id string) (types.Tracker, error)
}

// RecordStore lists and patches rows of the spreadsheet database.
type RecordStore interface {
	// ListRecords returns every row of table, optionally filtered by formula.
	ListRecords(ctx context.Context, table, formula string) ([]types.Record, error)

	// UpdateFields patches only the named fields of one row. A nil value clears the field.
	UpdateFields(ctx context.Context, table, id string, fields map[string]any) error
}
