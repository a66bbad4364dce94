package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// DefaultWindowDays is the length of the summary window when no dates are supplied.
const DefaultWindowDays = 30

// ErrInvalidRange is returned when a date range cannot be parsed or is inverted.
var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar day of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Day truncates t to its calendar day, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DefaultWindow returns the trailing window ending on the calendar day of now.
func DefaultWindow(now time.Time) DateRange {
	end := Day(now)
	return DateRange{Start: end.AddDate(0, 0, -DefaultWindowDays), End: end}
}

// ParseDate parses a YYYY-MM-DD date. A full RFC3339 timestamp is also accepted.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrInvalidRange, s)
	}
	return Day(t), nil
}

// ParseDateRange builds a range from optional bounds. A missing bound falls back
// to the matching bound of the default window.
func ParseDateRange(start, end string, now time.Time) (DateRange, error) {
	r := DefaultWindow(now)
	if strings.TrimSpace(start) != "" {
		t, err := ParseDate(start)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = t
	}
	if strings.TrimSpace(end) != "" {
		t, err := ParseDate(end)
		if err != nil {
			return DateRange{}, err
		}
		r.End = t
	}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return r, nil
}
