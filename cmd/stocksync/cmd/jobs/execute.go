package jobs

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/stocksync/stocksync/internal/cmd/application"
	"github.com/stocksync/stocksync/internal/cmd/output"
	"github.com/stocksync/stocksync/pkg/sync"
)

// Execute runs jobs and prints the result. Row failures are reported but do
// not fail the command; configuration and collaborator errors do.
func Execute(ctx context.Context, app application.Application, jobs []sync.Job, flags *Flags, w io.Writer) error {
	logger := app.Logger()

	// Step 1: Validate output format before doing any work
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	// Step 2: Build pipeline options from flags
	opts, err := flags.Options(time.Now())
	if err != nil {
		return err
	}

	// Step 3: Build the pipeline
	runner, err := app.Pipeline(jobs, opts...)
	if err != nil {
		return err
	}

	// Step 4: Run
	result, runErr := runner.Run(ctx, jobs...)
	if result != nil {
		if err := printResult(w, output.DetectFormat(string(format)), result); err != nil {
			logger.Error().Err(err).Msg("Failed to print result")
		}
		if result.HasFailures() {
			logger.Warn().Msg("Some rows could not be written; see the row reasons above")
		}
	}
	return runErr
}

func printResult(w io.Writer, format output.Format, result *sync.Result) error {
	var data any = result
	table := format == output.FormatTable || format == output.FormatWide
	if table {
		data = output.RunReport{Result: result}
	}

	if err := output.NewFormatter(format).Format(w, data); err != nil {
		return err
	}

	if table {
		_, err := fmt.Fprintln(w, output.RunReport{Result: result}.Footer())
		return err
	}
	return nil
}
