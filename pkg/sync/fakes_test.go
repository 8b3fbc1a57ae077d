package sync

import (
	"context"
	"maps"
	"net/http"

	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

type fakeWarehouse struct {
	inventory      [][]types.InventoryItem
	purchaseOrders [][]types.PurchaseOrder
	shipments      []types.Shipment
	orders         map[string]types.Order
	lookup         map[string]types.Order

	inventoryErr  error
	fetchOrderErr error
	shipmentsErr  error
	block         bool

	inventoryCalls []int
	lookups        []string
}

func (f *fakeWarehouse) ListInventory(ctx context.Context, page int) (sources.Page[types.InventoryItem], error) {
	if f.block {
		<-ctx.Done()
		return sources.Page[types.InventoryItem]{}, ctx.Err()
	}
	f.inventoryCalls = append(f.inventoryCalls, page)
	if f.inventoryErr != nil {
		return sources.Page[types.InventoryItem]{}, f.inventoryErr
	}
	if len(f.inventory) == 0 {
		return sources.Page[types.InventoryItem]{}, nil
	}
	return sources.Page[types.InventoryItem]{Items: f.inventory[page-1], TotalPages: len(f.inventory)}, nil
}

func (f *fakeWarehouse) ListPurchaseOrders(_ context.Context, page int) (sources.Page[types.PurchaseOrder], error) {
	if len(f.purchaseOrders) == 0 {
		return sources.Page[types.PurchaseOrder]{}, nil
	}
	return sources.Page[types.PurchaseOrder]{Items: f.purchaseOrders[page-1], TotalPages: len(f.purchaseOrders)}, nil
}

func (f *fakeWarehouse) FetchReportCSV(_ context.Context, _ types.ReportKind, _ types.DateRange) ([]byte, error) {
	return nil, nil
}

func (f *fakeWarehouse) Shipments(_ context.Context, _ types.DateRange) ([]types.Shipment, error) {
	if f.shipmentsErr != nil {
		return nil, f.shipmentsErr
	}
	return f.shipments, nil
}

func (f *fakeWarehouse) Orders(_ context.Context, _ types.DateRange) (map[string]types.Order, error) {
	return f.orders, nil
}

func (f *fakeWarehouse) FetchOrder(_ context.Context, number string) (types.Order, error) {
	f.lookups = append(f.lookups, number)
	if f.fetchOrderErr != nil {
		return types.Order{}, f.fetchOrderErr
	}
	order, ok := f.lookup[number]
	if !ok {
		return types.Order{}, errors.NewAPIError("zenventory", http.StatusNotFound, "order not found")
	}
	return order, nil
}

type fakeTracking struct {
	trackers  map[string]types.Tracker
	createErr error
	created   []string
	reads     []string
}

func (f *fakeTracking) DeriveTrackingURL(number string) (string, bool) {
	if number == "" {
		return "", false
	}
	return "https://parcels.example/" + number, true
}

func (f *fakeTracking) CreateTracker(_ context.Context, number string) (types.Tracker, error) {
	f.created = append(f.created, number)
	if f.createErr != nil {
		return types.Tracker{}, &errors.TrackerError{TrackingNumber: number, Err: f.createErr}
	}
	tracker := types.Tracker{
		ID:           "trk_" + number,
		TrackingCode: number,
		Status:       "pre_transit",
		PublicURL:    "https://track.example/" + number,
	}
	if f.trackers == nil {
		f.trackers = make(map[string]types.Tracker)
	}
	f.trackers[tracker.ID] = tracker
	return tracker, nil
}

func (f *fakeTracking) GetTracker(_ context.Context, id string) (types.Tracker, error) {
	f.reads = append(f.reads, id)
	tracker, ok := f.trackers[id]
	if !ok {
		return types.Tracker{}, errors.NewAPIError("easypost", http.StatusNotFound, "tracker not found")
	}
	return tracker, nil
}

type update struct {
	table  string
	id     string
	fields map[string]any
}

type fakeStore struct {
	tables    map[string][]types.Record
	updateErr map[string]error
	listErr   error
	formulas  []string
	updates   []update
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string][]types.Record)}
}

func (f *fakeStore) add(table string, rec types.Record) {
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	f.tables[table] = append(f.tables[table], rec)
}

// ListRecords returns fresh copies and ignores the formula, so the
// client-side eligibility check is exercised.
func (f *fakeStore) ListRecords(_ context.Context, table, formula string) ([]types.Record, error) {
	f.formulas = append(f.formulas, formula)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.Record, 0, len(f.tables[table]))
	for _, rec := range f.tables[table] {
		rec.Fields = maps.Clone(rec.Fields)
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) UpdateFields(_ context.Context, table, id string, fields map[string]any) error {
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.updates = append(f.updates, update{table: table, id: id, fields: maps.Clone(fields)})
	for i, rec := range f.tables[table] {
		if rec.ID != id {
			continue
		}
		for k, v := range fields {
			if v == nil {
				delete(f.tables[table][i].Fields, k)
			} else {
				f.tables[table][i].Fields[k] = v
			}
		}
	}
	return nil
}

func (f *fakeStore) updatesFor(id string) []update {
	var out []update
	for _, u := range f.updates {
		if u.id == id {
			out = append(out, u)
		}
	}
	return out
}
