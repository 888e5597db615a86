package domain

import (
	"fmt"
	"time"
)

// DateWindow is an inclusive acquisition-date range. Both boundary dates
// select scenes acquired at any instant within them: a window ending
// 2024-08-30 includes a scene acquired 2024-08-30T12:00:00Z.
type DateWindow struct {
	// Start is the first included date, at midnight UTC.
	Start time.Time

	// End is the last included date, at midnight UTC.
	End time.Time
}

// DateLayout is the wire format for request dates.
const DateLayout = "2006-01-02"

// ParseDateWindow builds a DateWindow from two ISO dates (YYYY-MM-DD).
func ParseDateWindow(start, end string) (DateWindow, error) {
	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: start %q: %v", ErrInvalidDates, start, err)
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: end %q: %v", ErrInvalidDates, end, err)
	}
	w := DateWindow{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return DateWindow{}, err
	}
	return w, nil
}

// Validate checks the window ordering.
func (w DateWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidDates)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s before start %s",
			ErrInvalidDates, w.End.Format(DateLayout), w.Start.Format(DateLayout))
	}
	return nil
}

// LowerBound returns the earliest included instant (start date, 00:00:00 UTC).
func (w DateWindow) LowerBound() time.Time {
	return w.Start
}

// UpperBound returns the latest included instant: the last microsecond of
// the end date. Encoding the inclusive end this way keeps a scene acquired
// at any time on the end date inside the window.
func (w DateWindow) UpperBound() time.Time {
	return w.End.Add(24*time.Hour - time.Microsecond)
}

// Contains reports whether an acquisition instant falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.LowerBound()) && !t.After(w.UpperBound())
}

// Days returns the window length in calendar days, inclusive of both ends.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start)/(24*time.Hour)) + 1
}

// Split partitions the window into consecutive sub-windows of at most
// maxDays days each. Windows within the limit return themselves.
// Sub-windows abut without overlap: each starts the day after the
// previous one ends.
func (w DateWindow) Split(maxDays int) []DateWindow {
	if maxDays <= 0 || w.Days() <= maxDays {
		return []DateWindow{w}
	}
	var out []DateWindow
	start := w.Start
	for !start.After(w.End) {
		end := start.AddDate(0, 0, maxDays-1)
		if end.After(w.End) {
			end = w.End
		}
		out = append(out, DateWindow{Start: start, End: end})
		start = end.AddDate(0, 0, 1)
	}
	return out
}

// String renders the window as "start..end" in ISO dates.
func (w DateWindow) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
