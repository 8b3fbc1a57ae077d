// Package app provides the application context and dependency management
// for the stocksync CLI: configuration, logging, and the collaborator
// clients behind the sync pipeline.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/internal/cmd/application"
	"github.com/stocksync/stocksync/internal/sources/airtable"
	"github.com/stocksync/stocksync/internal/sources/easypost"
	"github.com/stocksync/stocksync/internal/sources/zenventory"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/sync"
)

// App represents the stocksync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Collaborators, built from config unless injected
	warehouse sources.Warehouse
	tracking  sources.Tracking
	store     sources.RecordStore

	now func() time.Time
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		now:     time.Now,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Pipeline validates the settings jobs need and builds a pipeline against
// the configured collaborators.
func (a *App) Pipeline(jobs []sync.Job, opts ...sync.Option) (application.Runner, error) {
	if err := a.config.Validate(jobs...); err != nil {
		return nil, err
	}

	window, err := a.config.Window(a.now())
	if err != nil {
		return nil, err
	}

	base := []sync.Option{
		sync.WithWindow(window),
		sync.WithTimeout(a.config.RunTimeout),
		sync.WithInventoryTable(a.config.InventoryTable),
		sync.WithShipmentTable(a.config.ShipmentTable),
		sync.WithDomesticCountries(a.config.DomesticCountries...),
	}

	warehouse, tracking, store := a.collaborators()
	pipeline, err := sync.New(warehouse, tracking, store, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return pipeline, nil
}

// collaborators returns the injected clients, creating any that are missing.
func (a *App) collaborators() (sources.Warehouse, sources.Tracking, sources.RecordStore) {
	warehouse, tracking, store := a.warehouse, a.tracking, a.store

	if warehouse == nil {
		warehouse = zenventory.NewClient(zenventory.Config{
			APIKey:    a.config.ZenventoryAPIKey,
			APISecret: a.config.ZenventoryAPISecret,
			Timeout:   a.config.HTTPTimeout,
		})
	}
	if tracking == nil {
		tracking = easypost.NewClient(easypost.Config{
			APIKey:  a.config.EasyPostAPIKey,
			Timeout: a.config.HTTPTimeout,
		})
	}
	if store == nil {
		store = airtable.NewClient(airtable.Config{
			APIKey:  a.config.AirtableAPIKey,
			BaseID:  a.config.AirtableBaseID,
			Timeout: a.config.HTTPTimeout,
		})
	}
	return warehouse, tracking, store
}

// Shutdown flushes the application before exit. Runs hold no background
// resources, so it only records the shutdown.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCollaborators injects collaborator clients (useful for testing).
// A nil argument keeps the configured client.
func WithCollaborators(warehouse sources.Warehouse, tracking sources.Tracking, store sources.RecordStore) Option {
	return func(a *App) error {
		a.warehouse = warehouse
		a.tracking = tracking
		a.store = store
		return nil
	}
}

// WithClock sets the time source used to resolve rolling report windows.
func WithClock(now func() time.Time) Option {
	return func(a *App) error {
		a.now = now
		return nil
	}
}
