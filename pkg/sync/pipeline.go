// Package sync is the reconciliation pipeline. It pulls stock levels,
// purchase orders and shipment reports from the warehouse, computes the
// derived cost metrics and pushes minimal partial updates into the record
// store. A second job enriches shipment requests with carrier, cost and
// tracking data.
package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/costs"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
	"github.com/stocksync/stocksync/pkg/sources"
	"github.com/stocksync/stocksync/pkg/types"
)

// Pipeline runs the sync jobs against its collaborators.
type Pipeline struct {
	warehouse sources.Warehouse
	tracking  sources.Tracking
	store     sources.RecordStore
	options   *Options
	domestic  costs.CountrySet
}

// New creates a pipeline. All three collaborators are required.
func New(warehouse sources.Warehouse, tracking sources.Tracking, store sources.RecordStore, opts ...Option) (*Pipeline, error) {
	switch {
	case warehouse == nil:
		return nil, errors.NewValidationError("warehouse", nil, "warehouse source is required")
	case tracking == nil:
		return nil, errors.NewValidationError("tracking", nil, "tracking source is required")
	case store == nil:
		return nil, errors.NewValidationError("store", nil, "record store is required")
	}

	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		warehouse: warehouse,
		tracking:  tracking,
		store:     store,
		options:   options,
		domestic:  costs.NewCountrySet(options.DomesticCountries...),
	}, nil
}

// Options returns a copy of the pipeline options.
func (p *Pipeline) Options() Options {
	return *p.options
}

// Run executes jobs in order under the run deadline; no jobs means all of
// them. Row-level problems are recorded in the result, while a collaborator
// failure stops the run and is returned along with the partial result.
func (p *Pipeline) Run(ctx context.Context, jobs ...Job) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Resolve jobs
	if len(jobs) == 0 {
		jobs = Jobs()
	}
	for _, job := range jobs {
		if !job.IsValid() {
			return nil, errors.NewValidationError("job", job, "unknown job "+job.String())
		}
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if p.options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	// Step 3: Tag the run
	result := &Result{
		RunID:     uuid.NewString(),
		DryRun:    p.options.DryRun,
		StartedAt: time.Now(),
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.Ctx(ctx)

	start, end := p.options.Window.Format(constants.DateFormat)
	logger.Info().
		Strs("jobs", jobNames(jobs)).
		Str("window_start", start).
		Str("window_end", end).
		Bool("dry_run", p.options.DryRun).
		Msg("Starting sync run")

	// Step 4: Run jobs sequentially
	for _, job := range jobs {
		var (
			jr  *JobResult
			err error
		)
		switch job {
		case JobInventory:
			jr, err = p.SyncInventory(ctx)
		case JobShipments:
			jr, err = p.EnrichShipments(ctx)
		}
		if jr != nil {
			result.Jobs = append(result.Jobs, jr)
		}
		if err != nil {
			result.Duration = time.Since(result.StartedAt)
			if ctx.Err() == context.DeadlineExceeded {
				return result, errors.NewTimeoutError("sync "+job.String(), p.options.Timeout.String(), err.Error())
			}
			return result, err
		}
	}

	// Step 5: Log summary
	result.Duration = time.Since(result.StartedAt)
	logger.Info().
		Dur("duration", result.Duration).
		Msg(result.Summary())

	return result, nil
}

// write pushes the part of payload that differs from the row, honoring dry
// run. Only a fatal error is returned; other write failures mark the row
// failed.
func (p *Pipeline) write(ctx context.Context, table string, rec types.Record, row RowResult, payload map[string]any) (RowResult, error) {
	logger := logging.Ctx(ctx)

	diff := minimalDiff(rec, payload)
	if len(diff) == 0 {
		row.Status = StatusUnchanged
		logger.Debug().Msg("No updates needed")
		return row, nil
	}

	row.Payload = diff
	row.Fields = fieldNames(diff)

	if p.options.DryRun {
		row.Status = StatusUpdated
		logger.Info().Strs("fields", row.Fields).Bool("dry_run", true).Msg("Would push updates")
		return row, nil
	}

	if err := p.store.UpdateFields(ctx, table, rec.ID, diff); err != nil {
		row.Status = StatusFailed
		row.Err = err
		row.Reason = err.Error()
		if errors.IsFatal(err) {
			return row, errors.WrapCollaborator(constants.ServiceAirtable, "update record "+rec.ID, err)
		}
		logger.Error().Err(err).Strs("fields", row.Fields).Msg("Update failed")
		return row, nil
	}

	row.Status = StatusUpdated
	logger.Info().Strs("fields", row.Fields).Msg("Pushed updates")
	return row, nil
}

func jobNames(jobs []Job) []string {
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.String()
	}
	return names
}
