package sync

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/costs"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

// SyncInventory writes stock levels, unit cost and shipping cost medians to
// every row of the inventory table.
func (p *Pipeline) SyncInventory(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	ctx = logging.WithJob(ctx, JobInventory.String())
	logger := logging.Ctx(ctx)

	result := &JobResult{Job: JobInventory}
	defer func() { result.Duration = time.Since(start) }()

	// Step 1: Destination rows
	logger.Info().Str("table", p.options.InventoryTable).Msg("Getting inventory records")
	records, err := p.store.ListRecords(ctx, p.options.InventoryTable, "")
	if err != nil {
		return nil, errors.WrapCollaborator(constants.ServiceAirtable, "list inventory records", err)
	}

	// Step 2: Stock levels
	logger.Info().Msg("Getting warehouse inventory")
	items, err := sources.Paginate(ctx, p.warehouse.ListInventory)
	if err != nil {
		return nil, errors.WrapCollaborator(constants.ServiceZenventory, "list inventory", err)
	}
	stock := make(map[string]types.InventoryItem, len(items))
	for _, item := range items {
		if _, exists := stock[item.SKU]; !exists {
			stock[item.SKU] = item
		}
	}

	// Step 3: Unit costs from purchase history
	logger.Info().Msg("Getting purchase orders")
	orders, err := sources.Paginate(ctx, p.warehouse.ListPurchaseOrders)
	if err != nil {
		return nil, errors.WrapCollaborator(constants.ServiceZenventory, "list purchase orders", err)
	}
	unitCosts := costs.UnitCosts(orders)

	// Step 4: Shipments joined with their orders, grouped by SKU
	shipments, err := p.enrichedShipments(ctx)
	if err != nil {
		return nil, err
	}
	bySKU := costs.GroupBySKU(shipments)

	logger.Info().
		Int("records", len(records)).
		Int("items", len(stock)).
		Int("purchase_orders", len(orders)).
		Int("shipments", len(shipments)).
		Msg("Fetched source data")

	// Step 5: Reconcile each row
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row, err := p.syncInventoryRow(ctx, rec, stock, unitCosts, bySKU)
		result.Add(row)
		if err != nil {
			return result, err
		}
	}

	logger.Info().Msg(result.Summary())
	return result, nil
}

func (p *Pipeline) syncInventoryRow(
	ctx context.Context,
	rec types.Record,
	stock map[string]types.InventoryItem,
	unitCosts map[string]*costs.UnitCostRecord,
	bySKU map[string][]types.EnrichedShipment,
) (RowResult, error) {
	ctx = logging.WithRecord(ctx, rec.ID)
	logger := logging.Ctx(ctx)

	sku := strings.TrimSpace(rec.String(FieldSKU))
	row := RowResult{RecordID: rec.ID, Key: sku}

	if sku == "" {
		row.Status = StatusSkipped
		row.Reason = "row has no SKU"
		logger.Warn().Msg("Skipping row without SKU")
		return row, nil
	}

	item, ok := stock[sku]
	if !ok {
		err := errors.NewMissingRecordError("inventory item", sku, rec.ID)
		row.Status = StatusSkipped
		row.Reason = "missing source record"
		row.Err = err
		logger.Warn().Err(err).Str("sku", sku).Msg("Skipping row")
		return row, nil
	}

	stats := costs.Stats(bySKU[sku], p.domestic)
	payload := inventoryPayload(rec, item, unitCosts[sku], stats)
	return p.write(ctx, p.options.InventoryTable, rec, row, payload)
}

// inventoryPayload builds the full update for one row. The row's own unit
// cost override wins over the computed cost.
func inventoryPayload(rec types.Record, item types.InventoryItem, unitCost *costs.UnitCostRecord, stats costs.ShipmentStats) map[string]any {
	cost := decimal.NullDecimal{}
	if unitCost != nil {
		cost = unitCost.WeightedUnitCost
	}
	if override := rec.Number(FieldUnitCostOverride); !types.IsFalsy(override) {
		cost = override
	}

	return map[string]any{
		FieldInStock:             costs.Nullify(item.Sellable),
		FieldInbound:             costs.Nullify(item.Inbound),
		FieldUnitCost:            costs.Nullify(cost),
		FieldMedianUSAPostage:    costs.Nullify(stats.DomesticMedian),
		FieldMedianGlobalPostage: costs.Nullify(stats.GlobalMedian),
		FieldUSAShipments:        costs.Nullify(stats.DomesticCount),
		FieldGlobalShipments:     costs.Nullify(stats.GlobalCount),
	}
}

// enrichedShipments joins every shipment report row with its order, keeping
// report order. Shipments without an order in the window are left out.
func (p *Pipeline) enrichedShipments(ctx context.Context) ([]types.EnrichedShipment, error) {
	logger := logging.Ctx(ctx)

	reps, err := p.fetchReports(ctx)
	if err != nil {
		return nil, err
	}
	orders, shipments := reps.orders, reps.shipments

	enriched := make([]types.EnrichedShipment, 0, len(shipments))
	unmatched := 0
	for _, shipment := range shipments {
		order, ok := orders[shipment.OrderNumber]
		if !ok {
			unmatched++
			continue
		}
		enriched = append(enriched, types.EnrichedShipment{Shipment: shipment, Order: order})
	}
	if unmatched > 0 {
		logger.Debug().Int("unmatched", unmatched).Msg("Shipments without an order left out of cost medians")
	}
	return enriched, nil
}
