package sync

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Job identifies one pipeline of a run.
type Job string

// String returns the string representation of a job.
func (j Job) String() string {
	return string(j)
}

// Pipeline jobs.
const (
	JobInventory Job = "inventory"
	JobShipments Job = "shipments"
)

// Jobs returns all jobs in the order a full run executes them.
func Jobs() []Job {
	return []Job{JobInventory, JobShipments}
}

// IsValid returns true if the job is one of the defined constants.
func (j Job) IsValid() bool {
	return slices.Contains(Jobs(), j)
}

// Status is the outcome of one row.
type Status string

// Row outcomes.
const (
	StatusUpdated   Status = "updated"   // Payload written (or would be, in a dry run)
	StatusUnchanged Status = "unchanged" // Nothing to write
	StatusSkipped   Status = "skipped"   // Row ineligible or without source data
	StatusFailed    Status = "failed"    // Write rejected
)

// RowResult is the outcome of processing one record store row.
type RowResult struct {
	RecordID string         `json:"record_id" yaml:"record_id"`
	Key      string         `json:"key,omitempty" yaml:"key,omitempty"` // SKU or order number
	Status   Status         `json:"status" yaml:"status"`
	Fields   []string       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Payload  map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	Reason   string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err      error          `json:"-" yaml:"-"`
}

// JobResult accumulates the rows of one job.
type JobResult struct {
	Job       Job           `json:"job" yaml:"job"`
	Rows      []RowResult   `json:"rows" yaml:"rows"`
	Updated   int           `json:"updated" yaml:"updated"`
	Unchanged int           `json:"unchanged" yaml:"unchanged"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Failed    int           `json:"failed" yaml:"failed"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Add records a row outcome and updates the counts.
func (jr *JobResult) Add(row RowResult) {
	if row.Payload != nil && len(row.Fields) == 0 {
		row.Fields = fieldNames(row.Payload)
	}
	switch row.Status {
	case StatusUpdated:
		jr.Updated++
	case StatusUnchanged:
		jr.Unchanged++
	case StatusSkipped:
		jr.Skipped++
	case StatusFailed:
		jr.Failed++
	}
	jr.Rows = append(jr.Rows, row)
}

// Total returns the number of rows processed.
func (jr *JobResult) Total() int {
	return len(jr.Rows)
}

// Summary returns a human-readable summary of the job result.
func (jr *JobResult) Summary() string {
	return fmt.Sprintf("%s: %d updated, %d unchanged, %d skipped, %d failed",
		jr.Job, jr.Updated, jr.Unchanged, jr.Skipped, jr.Failed)
}

// Result represents the complete result of a run.
type Result struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Jobs      []*JobResult  `json:"jobs" yaml:"jobs"`
}

// Job returns the result of one job, or nil if it did not run.
func (r *Result) Job(job Job) *JobResult {
	for _, jr := range r.Jobs {
		if jr.Job == job {
			return jr
		}
	}
	return nil
}

// HasChanges returns true if any row was updated.
func (r *Result) HasChanges() bool {
	for _, jr := range r.Jobs {
		if jr.Updated > 0 {
			return true
		}
	}
	return false
}

// HasFailures returns true if any row write failed.
func (r *Result) HasFailures() bool {
	for _, jr := range r.Jobs {
		if jr.Failed > 0 {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if len(r.Jobs) == 0 {
		return "No jobs run"
	}

	parts := make([]string, 0, len(r.Jobs))
	for _, jr := range r.Jobs {
		parts = append(parts, jr.Summary())
	}

	summary := strings.Join(parts, "; ")
	if r.DryRun {
		summary += " (Dry run)"
	}
	return summary
}

func fieldNames(payload map[string]any) []string {
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
