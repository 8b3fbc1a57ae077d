package zenventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/trackurl"
	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/keys"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FetchReportCSV returns the raw CSV export of a report for the window.
func (c *Client) FetchReportCSV(ctx context.Context, kind types.ReportKind, window types.DateRange) ([]byte, error) {
	if err := window.Validate(); err != nil {
		return nil, errors.WrapValidation("window", err)
	}
	start, end := window.Format(constants.DateFormat)
	query := url.Values{
		"csv":       {"true"},
		"startDate": {start},
		"endDate":   {end},
	}
	return c.transport.GetBody(ctx, "/reports/"+kind.String(), query)
}

// Shipments returns the shipment report rows in report order. Rows without an
// order number are dropped.
func (c *Client) Shipments(ctx context.Context, window types.DateRange) ([]types.Shipment, error) {
	body, err := c.FetchReportCSV(ctx, types.ReportShipments, window)
	if err != nil {
		return nil, err
	}

	rows, err := ParseReport(ctx, types.ReportShipments.String(), body)
	if err != nil {
		return nil, err
	}

	shipments := make([]types.Shipment, 0, len(rows))
	for _, row := range rows {
		s := ShipmentFromRow(row)
		if s.OrderNumber == "" {
			continue
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

// ShipmentFromRow maps a normalized report row onto a Shipment and derives
// the carrier tracking URL when the number is recognized.
func ShipmentFromRow(row map[string]string) types.Shipment {
	s := types.Shipment{
		OrderNumber:      strings.TrimSpace(row["orderNumber"]),
		Carrier:          strings.TrimSpace(row["carrier"]),
		Service:          strings.TrimSpace(row["service"]),
		ShippingHandling: strings.TrimSpace(row["shippingHandling"]),
		Country:          strings.TrimSpace(row["country"]),
		TrackingNumber:   strings.TrimSpace(row["trackingNumber"]),
	}
	if s.TrackingNumber != "" {
		if u, ok := trackurl.Derive(s.TrackingNumber); ok {
			s.TrackingURL = u
		}
	}
	return s
}

// Orders returns the order detail report grouped by order number, line items
// in report order.
func (c *Client) Orders(ctx context.Context, window types.DateRange) (map[string]types.Order, error) {
	body, err := c.FetchReportCSV(ctx, types.ReportOrders, window)
	if err != nil {
		return nil, err
	}

	rows, err := ParseReport(ctx, types.ReportOrders.String(), body)
	if err != nil {
		return nil, err
	}
	return GroupOrders(rows)
}

// GroupOrders folds order detail rows (one per line item) into orders.
func GroupOrders(rows []map[string]string) (map[string]types.Order, error) {
	orders := make(map[string]types.Order)
	for i, row := range rows {
		number := strings.TrimSpace(row["co"])
		if number == "" {
			continue
		}

		qty, err := parseQuantity(row["orderedQty"])
		if err != nil {
			return nil, &errors.ParseError{
				Format:  "csv",
				Source:  types.ReportOrders.String(),
				Line:    i + 2,
				Message: "invalid ordered quantity " + row["orderedQty"],
				Err:     err,
			}
		}

		order := orders[number]
		order.Number = number
		order.Items = append(order.Items, types.OrderLineItem{
			SKU:      strings.TrimSpace(row["sku"]),
			Name:     strings.TrimSpace(row["description"]),
			Quantity: qty,
		})
		orders[number] = order
	}
	return orders, nil
}

func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

// ParseReport reads a CSV export with a header row into rows keyed by the
// normalized column names.
func ParseReport(ctx context.Context, source string, body []byte) ([]map[string]string, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", source, err)
	}

	var (
		rows   []map[string]string
		warned bool
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &errors.ParseError{
				Format:  "csv",
				Source:  source,
				Line:    line,
				Message: err.Error(),
				Err:     err,
			}
		}

		raw := make(map[string]string, len(headers))
		for i, h := range headers {
			raw[h] = record[i]
		}

		row, err := keys.NormalizeRowStrict(headers, raw)
		if err != nil && !warned {
			logging.Ctx(ctx).Warn().Err(err).Str("report", source).Msg("Report columns collide")
			warned = true
		}
		rows = append(rows, row)
	}

	logging.Ctx(ctx).Debug().Str("report", source).Int("rows", len(rows)).Msg("Parsed report")
	return rows, nil
}
