package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stocksync/stocksync/pkg/sync"
)

// RunReport renders a run result as a table: one line per job, or one line
// per row when wide.
type RunReport struct {
	*sync.Result
}

// TableData implements Tabular.
func (r RunReport) TableData(wide bool) Data {
	if wide {
		return r.rowData()
	}
	return r.jobData()
}

func (r RunReport) jobData() Data {
	data := Data{
		Headers:         []string{"Job", "Updated", "Unchanged", "Skipped", "Failed", "Duration"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for _, jr := range r.Jobs {
		data.Rows = append(data.Rows, []string{
			jr.Job.String(),
			strconv.Itoa(jr.Updated),
			strconv.Itoa(jr.Unchanged),
			strconv.Itoa(jr.Skipped),
			strconv.Itoa(jr.Failed),
			jr.Duration.Round(time.Millisecond).String(),
		})
	}
	return data
}

func (r RunReport) rowData() Data {
	data := Data{
		Headers: []string{"Job", "Record", "Key", "Status", "Fields", "Reason"},
	}
	for _, jr := range r.Jobs {
		for _, row := range jr.Rows {
			data.Rows = append(data.Rows, []string{
				jr.Job.String(),
				row.RecordID,
				row.Key,
				string(row.Status),
				strings.Join(row.Fields, ", "),
				row.Reason,
			})
		}
	}
	return data
}

// Footer is the line printed under a table.
func (r RunReport) Footer() string {
	if r.Result == nil {
		return ""
	}
	return fmt.Sprintf("Run %s: %s", r.RunID, r.Summary())
}
