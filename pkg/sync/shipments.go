package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/costs"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/types"
)

// EnrichShipments fills carrier, cost, order snapshot and tracking fields on
// shipment requests that the warehouse has shipped, and records delivery
// once the carrier reports it.
func (p *Pipeline) EnrichShipments(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	ctx = logging.WithJob(ctx, JobShipments.String())
	logger := logging.Ctx(ctx)

	result := &JobResult{Job: JobShipments}
	defer func() { result.Duration = time.Since(start) }()

	// Step 1: Rows awaiting enrichment
	logger.Info().Str("table", p.options.ShipmentTable).Msg("Getting shipment requests")
	records, err := p.store.ListRecords(ctx, p.options.ShipmentTable, ShipmentFormula)
	if err != nil {
		return nil, errors.WrapCollaborator(constants.ServiceAirtable, "list shipment requests", err)
	}

	// Step 2: Order and shipment reports
	reps, err := p.fetchReports(ctx)
	if err != nil {
		return nil, err
	}

	// Step 3: Enrich each row
	shipments := reps.firstShipments()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row, err := p.enrichShipmentRow(ctx, rec, shipments, reps.orders)
		result.Add(row)
		if err != nil {
			return result, err
		}
	}

	logger.Info().Msg(result.Summary())
	return result, nil
}

func (p *Pipeline) enrichShipmentRow(
	ctx context.Context,
	rec types.Record,
	shipments map[string]types.Shipment,
	orders map[string]types.Order,
) (RowResult, error) {
	ctx = logging.WithRecord(ctx, rec.ID)
	logger := logging.Ctx(ctx)
	row := RowResult{RecordID: rec.ID, Key: rec.ID}

	logger.Info().Str("first_name", rec.String(FieldFirstName)).Msg("Processing shipment")

	if !Eligible(rec) {
		row.Status = StatusSkipped
		row.Reason = "not eligible"
		logger.Debug().Msg("Row does not need enrichment")
		return row, nil
	}

	payload := make(map[string]any)

	// Delivery does not depend on the reports, so a row whose order has left
	// the report window still records it.
	if err := p.checkDelivery(ctx, rec, payload); err != nil {
		row.Status = StatusFailed
		row.Err = err
		return row, err
	}

	shipment, order, err := p.match(ctx, rec.ID, shipments, orders)
	if err != nil {
		if errors.IsFatal(err) {
			row.Status = StatusFailed
			row.Err = err
			return row, errors.WrapCollaborator(constants.ServiceZenventory, "fetch order "+rec.ID, err)
		}
		return p.unmatched(ctx, rec, row, payload, err)
	}

	if err := capture(rec, shipment, order, payload); err != nil {
		row.Status = StatusFailed
		row.Err = err
		row.Reason = err.Error()
		logger.Error().Err(err).Msg("Could not build shipment payload")
		return row, nil
	}

	if err := p.track(ctx, rec, shipment, payload, &row); err != nil {
		row.Status = StatusFailed
		row.Err = err
		return row, err
	}

	return p.write(ctx, p.options.ShipmentTable, rec, row, payload)
}

// match finds the shipment and order for an order number. An order missing
// from the report is looked up directly.
func (p *Pipeline) match(ctx context.Context, number string, shipments map[string]types.Shipment, orders map[string]types.Order) (types.Shipment, types.Order, error) {
	shipment, ok := shipments[number]
	if !ok {
		return types.Shipment{}, types.Order{}, errors.NewMissingRecordError("shipment", number, number)
	}

	if order, ok := orders[number]; ok {
		return shipment, order, nil
	}

	order, err := p.warehouse.FetchOrder(ctx, number)
	if err != nil {
		if errors.IsNotFound(err) {
			return types.Shipment{}, types.Order{}, errors.NewMissingRecordError("order", number, number)
		}
		return types.Shipment{}, types.Order{}, err
	}
	logging.Ctx(ctx).Debug().Msg("Order found by direct lookup")
	return shipment, order, nil
}

// unmatched finishes a row that has no warehouse shipment and order. A
// delivery found for it is still written; otherwise the row is skipped, or
// failed when the order lookup itself went wrong.
func (p *Pipeline) unmatched(ctx context.Context, rec types.Record, row RowResult, payload map[string]any, err error) (RowResult, error) {
	logger := logging.Ctx(ctx)
	row.Err = err

	if errors.IsNotFound(err) {
		row.Status = StatusSkipped
		row.Reason = "missing source record"
		logger.Info().Err(err).Msg("No matching warehouse shipment and order")
	} else {
		row.Status = StatusFailed
		row.Reason = "order lookup failed: " + err.Error()
		logger.Warn().Err(err).Msg("Order lookup failed")
	}

	if len(payload) == 0 {
		return row, nil
	}
	logger.Info().Msg("Recording delivery only")
	return p.write(ctx, p.options.ShipmentTable, rec, row, payload)
}

// checkDelivery sets Delivered-At on a shipped row whose tracker reports
// delivery. Only a fatal tracking error is returned.
func (p *Pipeline) checkDelivery(ctx context.Context, rec types.Record, payload map[string]any) error {
	if rec.IsEmpty(FieldService) || rec.IsEmpty(FieldTrackerID) || !rec.IsEmpty(FieldDeliveredAt) {
		return nil
	}
	logger := logging.Ctx(ctx)
	trackerID := rec.String(FieldTrackerID)

	tracker, err := p.tracking.GetTracker(ctx, trackerID)
	if err != nil {
		if errors.IsFatal(err) {
			return errors.WrapCollaborator(constants.ServiceEasyPost, "get tracker "+trackerID, err)
		}
		logger.Warn().Err(err).Str("tracker_id", trackerID).Msg("Could not read tracker")
		return nil
	}

	if !tracker.Delivered() {
		logger.Debug().Str("tracker_id", trackerID).Str("status", tracker.Status).Msg("Not delivered yet")
		return nil
	}

	last, ok := tracker.LastEvent()
	if !ok {
		logger.Warn().Str("tracker_id", trackerID).Msg("Delivered tracker has no events")
		return nil
	}
	payload[FieldDeliveredAt] = last.Datetime.UTC().Format(constants.TimeFormatISO8601)
	return nil
}

// capture fills Service, Postage Cost, Labor Cost and the items snapshot.
// Each is written only while empty, so the first capture is never overwritten.
func capture(rec types.Record, shipment types.Shipment, order types.Order, payload map[string]any) error {
	if rec.IsEmpty(FieldService) {
		payload[FieldService] = costs.Nullify(shipment.ServiceLabel())
	}

	if rec.IsEmpty(FieldPostageCost) {
		if postage, err := shipment.ShippingCost(); err == nil {
			payload[FieldPostageCost] = costs.Nullify(postage)
		}
	}

	if rec.IsEmpty(FieldLaborCost) {
		payload[FieldLaborCost] = costs.Nullify(costs.LaborCost(order))
	}

	if rec.IsEmpty(FieldItemsOrdered) {
		snapshot, err := ItemsSnapshot(order)
		if err != nil {
			return err
		}
		payload[FieldItemsOrdered] = costs.Nullify(snapshot)
	}
	return nil
}

// ItemsSnapshot renders the order's line items as indented JSON.
func ItemsSnapshot(order types.Order) (string, error) {
	items := order.Items
	if items == nil {
		items = []types.OrderLineItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", errors.WrapParse("json", "order "+order.Number, err)
	}
	return string(data), nil
}

// track creates a tracker for a shipped row that has none yet and fills the
// tracking number and URL. A rejected tracking number is recorded on the row
// and the tracker fields stay empty for the next run; only a fatal error is
// returned.
func (p *Pipeline) track(ctx context.Context, rec types.Record, shipment types.Shipment, payload map[string]any, row *RowResult) error {
	if !rec.IsEmpty(FieldTrackerID) || shipment.TrackingNumber == "" {
		return nil
	}
	logger := logging.Ctx(ctx).With().Str("tracking_number", shipment.TrackingNumber).Logger()

	if rec.IsEmpty(FieldTrackingNumber) {
		payload[FieldTrackingNumber] = shipment.TrackingNumber
	}

	if p.options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Would create tracker")
		p.fallbackTrackingURL(rec, shipment, payload)
		return nil
	}

	tracker, err := p.tracking.CreateTracker(ctx, shipment.TrackingNumber)
	if err != nil {
		if errors.IsFatal(err) {
			return errors.WrapCollaborator(constants.ServiceEasyPost, "create tracker", err)
		}
		row.Err = err
		row.Reason = "tracker creation failed"
		logger.Warn().Err(err).Msg("Tracker creation failed")
		p.fallbackTrackingURL(rec, shipment, payload)
		return nil
	}

	logger.Info().Str("tracker_id", tracker.ID).Msg("Created tracker")
	payload[FieldTrackerID] = tracker.ID
	if tracker.PublicURL == "" {
		p.fallbackTrackingURL(rec, shipment, payload)
	} else if rec.IsEmpty(FieldTrackingURL) {
		payload[FieldTrackingURL] = tracker.PublicURL
	}
	return nil
}

// fallbackTrackingURL fills an empty Tracking URL from the tracking number.
func (p *Pipeline) fallbackTrackingURL(rec types.Record, shipment types.Shipment, payload map[string]any) {
	if !rec.IsEmpty(FieldTrackingURL) {
		return
	}
	if shipment.TrackingURL != "" {
		payload[FieldTrackingURL] = shipment.TrackingURL
		return
	}
	if u, ok := p.tracking.DeriveTrackingURL(shipment.TrackingNumber); ok {
		payload[FieldTrackingURL] = u
	}
}
