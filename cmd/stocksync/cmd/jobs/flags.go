package jobs

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sync"
	"github.com/stocksync/stocksync/pkg/types"
)

// Flags holds the flags shared by the job commands.
type Flags struct {
	DryRun    bool
	StartDate string
	EndDate   string
	Days      int
	Timeout   time.Duration
}

// addFlags adds the job flags to cmd.
func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Compute and log updates without writing them or creating trackers")
	cmd.Flags().StringVar(&flags.StartDate, "start-date", "",
		"First day of the report window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.EndDate, "end-date", "",
		"Last day of the report window (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flags.Days, "days", 0,
		"Use a rolling report window of the last N days")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0,
		"Deadline for the whole run (default from RUN_TIMEOUT)")

	cmd.MarkFlagsMutuallyExclusive("days", "start-date")
	cmd.MarkFlagsMutuallyExclusive("days", "end-date")
	cmd.MarkFlagsRequiredTogether("start-date", "end-date")

	return flags
}

// Options converts the flags into pipeline options. Flags left unset keep
// the configured values.
func (f *Flags) Options(now time.Time) ([]sync.Option, error) {
	var opts []sync.Option

	if f.DryRun {
		opts = append(opts, sync.WithDryRun(true))
	}

	switch {
	case f.Days < 0:
		return nil, &errors.ValidationError{Field: "days", Value: f.Days, Message: "must be positive"}
	case f.Days > 0:
		opts = append(opts, sync.WithWindow(types.LastNDays(f.Days, now)))
	case f.StartDate != "" || f.EndDate != "":
		window, err := types.ParseDateRange(constants.DateFormat, f.StartDate, f.EndDate)
		if err != nil {
			return nil, errors.WrapValidation("report window", err)
		}
		opts = append(opts, sync.WithWindow(window))
	}

	if f.Timeout < 0 {
		return nil, &errors.ValidationError{Field: "timeout", Value: f.Timeout, Message: "must be non-negative"}
	}
	if f.Timeout > 0 {
		opts = append(opts, sync.WithTimeout(f.Timeout))
	}

	return opts, nil
}
