package sync

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/types"
)

// reports holds the two warehouse CSV exports for the run window.
type reports struct {
	orders    map[string]types.Order
	shipments []types.Shipment
}

// firstShipments indexes the first shipment of every order number.
func (r *reports) firstShipments() map[string]types.Shipment {
	first := make(map[string]types.Shipment, len(r.shipments))
	for _, s := range r.shipments {
		if _, exists := first[s.OrderNumber]; !exists {
			first[s.OrderNumber] = s
		}
	}
	return first
}

// fetchReports exports the order and shipment reports concurrently.
// The first failure cancels the other export.
func (p *Pipeline) fetchReports(ctx context.Context) (*reports, error) {
	start, end := p.options.Window.Format(time.DateOnly)
	logging.Ctx(ctx).Info().
		Str("start", start).
		Str("end", end).
		Msg("Exporting orders and shipments from warehouse")

	var r reports
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := p.warehouse.Orders(gctx, p.options.Window)
		if err != nil {
			return errors.WrapCollaborator(constants.ServiceZenventory, "fetch order report", err)
		}
		r.orders = orders
		return nil
	})
	g.Go(func() error {
		shipments, err := p.warehouse.Shipments(gctx, p.options.Window)
		if err != nil {
			return errors.WrapCollaborator(constants.ServiceZenventory, "fetch shipment report", err)
		}
		r.shipments = shipments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}
