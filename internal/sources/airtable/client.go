// Package airtable is the record store client. It lists table rows with
// offset pagination and an optional filter formula and patches individual
// fields of a row.
package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/stocksync/stocksync/internal/transport"
	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

// maxPageSize is the largest page the list endpoint returns.
const maxPageSize = 100

// Config holds the client settings.
type Config struct {
	APIKey            string
	BaseID            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client implements sources.RecordStore for one base.
type Client struct {
	transport *transport.Client
	baseID    string
}

var _ sources.RecordStore = (*Client)(nil)

type listResponse struct {
	Records []types.Record `json:"records"`
	Offset  string         `json:"offset"`
}

type updateRequest struct {
	Fields map[string]any `json:"fields"`
}

// NewClient creates a client for the base, rate limited to the API's
// per-base request budget.
func NewClient(cfg Config, opts ...transport.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.AirtableBaseURL
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = constants.AirtableRequestsPerSecond
	}

	opts = append([]transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithRateLimit(cfg.RequestsPerSecond, 1),
	}, opts...)
	return &Client{
		transport: transport.New(
			constants.ServiceAirtable,
			cfg.BaseURL,
			&transport.BearerAuth{Token: cfg.APIKey},
			opts...,
		),
		baseID: cfg.BaseID,
	}
}

func (c *Client) tablePath(table string) string {
	return "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// ListRecords returns every row of table matching formula. An empty formula
// selects all rows.
func (c *Client) ListRecords(ctx context.Context, table, formula string) ([]types.Record, error) {
	logger := logging.Ctx(ctx).With().Str("table", table).Logger()

	var (
		records []types.Record
		offset  string
	)
	for page := 1; ; page++ {
		if page > constants.MaxPages {
			return nil, &errors.ValidationError{
				Field:   "offset",
				Value:   offset,
				Message: fmt.Sprintf("table %s exceeds %d pages", table, constants.MaxPages),
			}
		}

		query := url.Values{"pageSize": {strconv.Itoa(maxPageSize)}}
		if formula != "" {
			query.Set("filterByFormula", formula)
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		var resp listResponse
		if err := c.transport.GetJSON(ctx, c.tablePath(table), query, &resp); err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)

		logger.Debug().Int("page", page).Int("records", len(resp.Records)).Msg("Listed records")

		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}
}

// UpdateFields patches the named fields of one row. Nil values clear fields;
// fields not named are left untouched.
func (c *Client) UpdateFields(ctx context.Context, table, id string, fields map[string]any) error {
	if id == "" {
		return errors.NewValidationError("id", id, "record id is required")
	}
	if len(fields) == 0 {
		return nil
	}

	var updated types.Record
	err := c.transport.PatchJSON(ctx, c.tablePath(table)+"/"+url.PathEscape(id), updateRequest{Fields: fields}, &updated)
	if err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return errors.NewNotFoundError("record", id)
		}
		return errors.WrapResource("update", "record", id, err)
	}
	return nil
}
