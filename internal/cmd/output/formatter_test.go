package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/stocksync/pkg/sync"
)

func testResult() *sync.Result {
	inventory := &sync.JobResult{Job: sync.JobInventory, Duration: 1500 * time.Millisecond}
	inventory.Add(sync.RowResult{RecordID: "rec1", Key: "ABC", Status: sync.StatusUpdated, Payload: map[string]any{"In Stock": 12}})
	inventory.Add(sync.RowResult{RecordID: "rec2", Key: "NOPE", Status: sync.StatusSkipped, Reason: "missing source record"})

	return &sync.Result{
		RunID: "5f0c6e1e-8d1a-4c53-9a43-2f3f0f1f8c11",
		Jobs:  []*sync.JobResult{inventory},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, testResult()))

	out := buf.String()
	assert.Contains(t, out, `"run_id": "5f0c6e1e-8d1a-4c53-9a43-2f3f0f1f8c11"`)
	assert.Contains(t, out, `"status": "skipped"`)
	assert.Contains(t, out, `"updated": 1`)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, testResult()))

	out := buf.String()
	assert.Contains(t, out, "run_id: 5f0c6e1e-8d1a-4c53-9a43-2f3f0f1f8c11")
	assert.Contains(t, out, "job: inventory")
}

func TestRunReportTable(t *testing.T) {
	report := RunReport{Result: testResult()}

	summary := report.TableData(false)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, []string{"inventory", "1", "0", "1", "0", "1.5s"}, summary.Rows[0])

	rows := report.TableData(true)
	require.Len(t, rows.Rows, 2)
	assert.Equal(t, []string{"inventory", "rec1", "ABC", "updated", "In Stock", ""}, rows.Rows[0])
	assert.Equal(t, "missing source record", rows.Rows[1][5])

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, report))
	assert.Contains(t, buf.String(), "inventory")
	assert.Contains(t, buf.String(), "1.5s")

	assert.Equal(t,
		"Run 5f0c6e1e-8d1a-4c53-9a43-2f3f0f1f8c11: inventory: 1 updated, 0 unchanged, 1 skipped, 0 failed",
		report.Footer())
}

func TestTableFormatterStruct(t *testing.T) {
	info := struct {
		Version string `json:"version"`
		BuiltBy string `json:"built_by"`
	}{Version: "1.2.0", BuiltBy: "goreleaser"}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, info))
	assert.Contains(t, buf.String(), "1.2.0")
	assert.Contains(t, buf.String(), "goreleaser")
}
