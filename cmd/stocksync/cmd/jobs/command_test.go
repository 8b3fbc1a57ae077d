package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/stocksync/internal/cmd/application"
	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sync"
)

type fakeRunner struct {
	result *sync.Result
	err    error
	jobs   []sync.Job
}

func (r *fakeRunner) Run(_ context.Context, jobs ...sync.Job) (*sync.Result, error) {
	r.jobs = jobs
	return r.result, r.err
}

func runResult(jobs ...sync.Job) *sync.Result {
	result := &sync.Result{RunID: "run-1"}
	for _, job := range jobs {
		jr := &sync.JobResult{Job: job}
		jr.Add(sync.RowResult{RecordID: "rec1", Status: sync.StatusUpdated})
		result.Jobs = append(result.Jobs, jr)
	}
	return result
}

// newMock returns a mock application that records the options it was given.
func newMock(runner *fakeRunner, format string, got *sync.Options) *application.Mock {
	return &application.Mock{
		OutputFormatFunc: func() string { return format },
		PipelineFunc: func(jobs []sync.Job, opts ...sync.Option) (application.Runner, error) {
			if got != nil {
				*got = *sync.Defaults().Apply(opts...)
			}
			return runner, nil
		},
	}
}

func TestRunCommandRunsAllJobs(t *testing.T) {
	runner := &fakeRunner{result: runResult(sync.Jobs()...)}
	var buf bytes.Buffer

	cmd := NewRunCommand(newMock(runner, "json", nil))
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, sync.Jobs(), runner.jobs)

	var decoded sync.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Len(t, decoded.Jobs, 2)
}

func TestInventoryCommandFlags(t *testing.T) {
	runner := &fakeRunner{result: runResult(sync.JobInventory)}
	var got sync.Options
	var buf bytes.Buffer

	cmd := NewInventoryCommand(newMock(runner, "table", &got))
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run", "--start-date", "2025-01-01", "--end-date", "2025-03-31", "--timeout", "5m"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, []sync.Job{sync.JobInventory}, runner.jobs)
	assert.True(t, got.DryRun)
	assert.Equal(t, 5*time.Minute, got.Timeout)
	start, end := got.Window.Format(constants.DateFormat)
	assert.Equal(t, "2025-01-01", start)
	assert.Equal(t, "2025-03-31", end)

	assert.Contains(t, buf.String(), "inventory")
	assert.Contains(t, buf.String(), "Run run-1")
}

func TestShipmentsCommandRejectsConflictingWindow(t *testing.T) {
	runner := &fakeRunner{result: runResult(sync.JobShipments)}

	cmd := NewShipmentsCommand(newMock(runner, "table", nil))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--days", "30", "--start-date", "2025-01-01", "--end-date", "2025-01-31"})
	assert.Error(t, cmd.Execute())
	assert.Nil(t, runner.jobs)
}

func TestExecuteReturnsFatalErrorAfterPrinting(t *testing.T) {
	fatal := errors.WrapCollaborator("airtable", "update record rec2",
		errors.NewAuthenticationError("airtable", "bearer", "token rejected", nil))
	runner := &fakeRunner{result: runResult(sync.JobInventory), err: fatal}
	var buf bytes.Buffer

	err := Execute(context.Background(), newMock(runner, "yaml", nil), []sync.Job{sync.JobInventory}, &Flags{}, &buf)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, buf.String(), "run_id: run-1")
}

func TestExecuteConfigError(t *testing.T) {
	app := &application.Mock{
		PipelineFunc: func([]sync.Job, ...sync.Option) (application.Runner, error) {
			return nil, &errors.ConfigError{Component: "config", Message: "required settings not provided", Missing: []string{"AIRTABLE_API_KEY"}}
		},
	}

	err := Execute(context.Background(), app, sync.Jobs(), &Flags{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AIRTABLE_API_KEY")
}

func TestExecuteInvalidFormat(t *testing.T) {
	called := false
	app := &application.Mock{
		OutputFormatFunc: func() string { return "xml" },
		PipelineFunc: func([]sync.Job, ...sync.Option) (application.Runner, error) {
			called = true
			return &fakeRunner{}, nil
		},
	}

	err := Execute(context.Background(), app, sync.Jobs(), &Flags{}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestFlagsOptions(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("unset flags keep configured values", func(t *testing.T) {
		opts, err := (&Flags{}).Options(now)
		require.NoError(t, err)
		assert.Empty(t, opts)
	})

	t.Run("rolling window", func(t *testing.T) {
		opts, err := (&Flags{Days: 7}).Options(now)
		require.NoError(t, err)
		got := sync.Defaults().Apply(opts...)
		start, end := got.Window.Format(constants.DateFormat)
		assert.Equal(t, "2025-06-23", start)
		assert.Equal(t, "2025-06-30", end)
	})

	t.Run("invalid dates", func(t *testing.T) {
		_, err := (&Flags{StartDate: "2025-02-01", EndDate: "2025-01-01"}).Options(now)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("negative days", func(t *testing.T) {
		_, err := (&Flags{Days: -1}).Options(now)
		assert.Error(t, err)
	})
}
