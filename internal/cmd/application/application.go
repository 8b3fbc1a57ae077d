// Package application provides the application interface for stocksync commands.
//
// Commands accept this interface rather than the concrete App so they can be
// tested against a Mock without credentials or network access.
//
//	mock := &application.Mock{
//	    PipelineFunc: func(jobs []sync.Job, opts ...sync.Option) (application.Runner, error) {
//	        return fakeRunner, nil
//	    },
//	}
//	cmd := synccmd.NewRunCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/pkg/sync"
)

// Runner executes sync jobs. *sync.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, jobs ...sync.Job) (*sync.Result, error)
}

// Application provides what commands need from the application.
type Application interface {
	// Pipeline validates the configuration required by jobs and returns a
	// runner wired to the configured collaborators. Options are applied
	// after the configured defaults.
	Pipeline(jobs []sync.Job, opts ...sync.Option) (Runner, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

var _ Runner = (*sync.Pipeline)(nil)
