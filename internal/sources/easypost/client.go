// Package easypost is the tracking client: it registers carrier tracking
// numbers as trackers and reads their delivery status.
package easypost

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/stocksync/stocksync/internal/trackurl"
	"github.com/stocksync/stocksync/internal/transport"
	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

// Config holds the client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client implements sources.Tracking.
type Client struct {
	transport *transport.Client
}

var _ sources.Tracking = (*Client)(nil)

type createTrackerRequest struct {
	Tracker struct {
		TrackingCode string `json:"tracking_code"`
		Carrier      string `json:"carrier,omitempty"`
	} `json:"tracker"`
}

// NewClient creates a client authenticated with the API key.
func NewClient(cfg Config, opts ...transport.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.EasyPostBaseURL
	}

	opts = append([]transport.Option{transport.WithTimeout(cfg.Timeout)}, opts...)
	return &Client{
		transport: transport.New(
			constants.ServiceEasyPost,
			cfg.BaseURL,
			&transport.BasicAuth{Username: cfg.APIKey},
			opts...,
		),
	}
}

// DeriveTrackingURL returns the carrier tracking page for number, falling
// back to a carrier-agnostic page for unrecognized formats.
func (c *Client) DeriveTrackingURL(number string) (string, bool) {
	return trackurl.URL(number)
}

// CreateTracker registers number with the tracking service. Rejections are
// returned as *errors.TrackerError.
func (c *Client) CreateTracker(ctx context.Context, number string) (types.Tracker, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return types.Tracker{}, &errors.TrackerError{
			TrackingNumber: number,
			Err:            errors.NewValidationError("tracking_code", number, "tracking number is empty"),
		}
	}

	var req createTrackerRequest
	req.Tracker.TrackingCode = number

	var tracker types.Tracker
	if err := c.transport.PostJSON(ctx, "/trackers", req, &tracker); err != nil {
		return types.Tracker{}, &errors.TrackerError{TrackingNumber: number, Err: err}
	}
	if tracker.ID == "" {
		return types.Tracker{}, &errors.TrackerError{
			TrackingNumber: number,
			Err:            errors.NewParseError("json", "tracker", "response has no tracker id", nil),
		}
	}
	return tracker, nil
}

// GetTracker reads an existing tracker with its event history.
func (c *Client) GetTracker(ctx context.Context, id string) (types.Tracker, error) {
	if id == "" {
		return types.Tracker{}, errors.NewValidationError("id", id, "tracker id is required")
	}

	var tracker types.Tracker
	if err := c.transport.GetJSON(ctx, "/trackers/"+url.PathEscape(id), nil, &tracker); err != nil {
		return types.Tracker{}, err
	}
	return tracker, nil
}
