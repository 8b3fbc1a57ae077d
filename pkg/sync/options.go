package sync

import (
	"fmt"
	"time"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/types"
)

// Options controls a synchronization run.
type Options struct {
	// Orchestration control
	DryRun  bool          // Compute and log payloads without writing them
	Timeout time.Duration // Deadline for the whole run (0 means no deadline)

	// Report window for shipment and order exports
	Window types.DateRange

	// Record store tables
	InventoryTable string
	ShipmentTable  string

	// Country codes whose shipments count as domestic
	DomesticCountries []string
}

// Apply applies the given options to the sync options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Defaults returns the default sync options.
func Defaults() *Options {
	window, _ := types.ParseDateRange(constants.DateFormat, constants.DefaultReportStart, constants.DefaultReportEnd)
	return &Options{
		DryRun:            false,
		Timeout:           constants.DefaultRunTimeout,
		Window:            window,
		InventoryTable:    constants.DefaultInventoryTable,
		ShipmentTable:     constants.DefaultShipmentTable,
		DomesticCountries: []string{constants.DefaultDomesticCountry},
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	if err := o.Window.Validate(); err != nil {
		return &errors.ValidationError{
			Field:   "Window",
			Value:   o.Window,
			Message: err.Error(),
		}
	}

	if o.InventoryTable == "" || o.ShipmentTable == "" {
		return &errors.ValidationError{
			Field:   "Table",
			Message: "inventory and shipment table names are required",
		}
	}

	if len(o.DomesticCountries) == 0 {
		return &errors.ValidationError{
			Field:   "DomesticCountries",
			Message: fmt.Sprintf("at least one domestic country is required (e.g. %s)", constants.DefaultDomesticCountry),
		}
	}

	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the run deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithWindow configures the report window.
func WithWindow(window types.DateRange) Option {
	return func(opts *Options) {
		opts.Window = window
	}
}

// WithInventoryTable configures the inventory table name.
func WithInventoryTable(table string) Option {
	return func(opts *Options) {
		opts.InventoryTable = table
	}
}

// WithShipmentTable configures the shipment request table name.
func WithShipmentTable(table string) Option {
	return func(opts *Options) {
		opts.ShipmentTable = table
	}
}

// WithDomesticCountries configures which destination countries are domestic.
func WithDomesticCountries(countries ...string) Option {
	return func(opts *Options) {
		opts.DomesticCountries = countries
	}
}
