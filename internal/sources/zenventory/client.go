// Package zenventory is the warehouse client: paginated inventory and
// purchase-order listings, CSV report exports and single-order lookups
// against the Zenventory REST API.
package zenventory

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/stocksync/stocksync/internal/transport"
	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

// Config holds the client settings.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
	PageSize  int
}

// Client implements sources.Warehouse.
type Client struct {
	transport *transport.Client
	pageSize  int
}

var _ sources.Warehouse = (*Client)(nil)

// meta is the pagination block of every list response.
type meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
}

type inventoryResponse struct {
	Inventory []types.InventoryItem `json:"inventory"`
	Meta      meta                  `json:"meta"`
}

type purchaseOrdersResponse struct {
	PurchaseOrders []types.PurchaseOrder `json:"purchaseOrders"`
	Meta           meta                  `json:"meta"`
}

// NewClient creates a client authenticated with the key and secret.
func NewClient(cfg Config, opts ...transport.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.ZenventoryBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.DefaultPageSize
	}

	opts = append([]transport.Option{transport.WithTimeout(cfg.Timeout)}, opts...)
	return &Client{
		transport: transport.New(
			constants.ServiceZenventory,
			cfg.BaseURL,
			&transport.BasicAuth{Username: cfg.APIKey, Password: cfg.APISecret},
			opts...,
		),
		pageSize: cfg.PageSize,
	}
}

func (c *Client) pageQuery(page int) url.Values {
	return url.Values{
		"perPage": {strconv.Itoa(c.pageSize)},
		"page":    {strconv.Itoa(page)},
	}
}

// ListInventory returns one page of stock levels.
func (c *Client) ListInventory(ctx context.Context, page int) (sources.Page[types.InventoryItem], error) {
	var resp inventoryResponse
	if err := c.transport.GetJSON(ctx, "/inventory", c.pageQuery(page), &resp); err != nil {
		return sources.Page[types.InventoryItem]{}, err
	}
	return sources.Page[types.InventoryItem]{
		Items:      resp.Inventory,
		TotalPages: resp.Meta.TotalPages,
	}, nil
}

// ListPurchaseOrders returns one page of purchase orders.
func (c *Client) ListPurchaseOrders(ctx context.Context, page int) (sources.Page[types.PurchaseOrder], error) {
	var resp purchaseOrdersResponse
	if err := c.transport.GetJSON(ctx, "/purchase-orders", c.pageQuery(page), &resp); err != nil {
		return sources.Page[types.PurchaseOrder]{}, err
	}
	return sources.Page[types.PurchaseOrder]{
		Items:      resp.PurchaseOrders,
		TotalPages: resp.Meta.TotalPages,
	}, nil
}

// FetchOrder looks up a single customer order. A missing order surfaces as
// an API error that satisfies errors.IsNotFound.
func (c *Client) FetchOrder(ctx context.Context, number string) (types.Order, error) {
	var order types.Order
	if err := c.transport.GetJSON(ctx, "/customer-orders/"+url.PathEscape(number), nil, &order); err != nil {
		return types.Order{}, err
	}
	if order.Number == "" {
		order.Number = number
	}
	return order, nil
}
