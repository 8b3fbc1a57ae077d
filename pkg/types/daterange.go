package types

import (
	"fmt"
	"time"
)

// DateRange is an inclusive calendar window for report pulls.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two dates in the given layout.
func ParseDateRange(layout, start, end string) (DateRange, error) {
	s, err := time.Parse(layout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(layout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// LastNDays returns the window ending at now and starting n days earlier.
func LastNDays(n int, now time.Time) DateRange {
	return DateRange{Start: now.AddDate(0, 0, -n), End: now}
}

// Validate checks that the window is non-empty.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range is not set")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("date range end %s is before start %s", r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly))
	}
	return nil
}

// Format renders both ends in layout.
func (r DateRange) Format(layout string) (string, string) {
	return r.Start.Format(layout), r.End.Format(layout)
}
