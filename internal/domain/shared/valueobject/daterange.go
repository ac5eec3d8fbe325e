package valueobject

import (
	"fmt"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
)

// DateRange is a value object representing an inclusive range of calendar days.
// Both endpoints are normalized to midnight UTC so that overlap checks work on
// whole days regardless of the wall-clock time the caller supplied.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a new DateRange
// Returns error if end is before start
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return DateRange{}, shared.NewDomainError("INVALID_DATES",
			fmt.Sprintf("end date %s is before start date %s", e.Format("2006-01-02"), s.Format("2006-01-02")))
	}
	return DateRange{start: s, end: e}, nil
}

// Start returns the first day of the range
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the last day of the range (inclusive)
func (r DateRange) End() time.Time {
	return r.end
}

// Days returns the number of calendar days covered by the range.
// A single-day range counts as one day.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours()/24) + 1
}

// Overlaps returns true if the two ranges share at least one day.
// Both ranges are closed intervals: start <= other.end && end >= other.start.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

// Contains returns true if the given day falls within the range
func (r DateRange) Contains(day time.Time) bool {
	d := truncateToDay(day)
	return !d.Before(r.start) && !d.After(r.end)
}

// IsZero returns true if the range has not been initialized
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// String returns the range in "YYYY-MM-DD..YYYY-MM-DD" form
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.start.Format("2006-01-02"), r.end.Format("2006-01-02"))
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
