package availability

import (
	"fmt"
	"time"
)

// AccountID identifies a calendar account. It is an opaque string used as a
// lookup key for the BusyIntervalProvider; comparison is case-sensitive.
type AccountID string

// TimeInterval is a half-open interval [Start, End) of absolute time.
// A valid interval has Start before End.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval creates a TimeInterval, rejecting intervals where the
// start is not strictly before the end.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("interval start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns the length of the interval.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two intervals share any instant.
// Touching intervals ([a,b) and [b,c)) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// BusyPeriod is a TimeInterval tagged with the account it belongs to.
type BusyPeriod struct {
	TimeInterval
	AccountID AccountID
}

// RawBusyPeriod is a busy interval as returned by a provider, with
// ISO-8601 timestamps still in string form. Parsing and validation happen
// during normalization so a single malformed entry never fails a request.
type RawBusyPeriod struct {
	Start string
	End   string
}

// WorkingHoursWindow is the daily range within which availability is
// considered. DayStart is midnight of the resolved day; Start and End are
// the working-hours boundaries on that day. All three are absolute
// instants carrying the window's location.
type WorkingHoursWindow struct {
	DayStart time.Time
	Start    time.Time
	End      time.Time
	Timezone string
}

// Date returns the window's calendar date formatted as YYYY-MM-DD.
func (w WorkingHoursWindow) Date() string {
	return w.DayStart.Format("2006-01-02")
}

// Clock returns the working-hours boundaries as HH:MM local-time strings.
func (w WorkingHoursWindow) Clock() (start, end string) {
	return w.Start.Format("15:04"), w.End.Format("15:04")
}

// FreeSlot is a maximal gap between busy periods inside a working-hours
// window, at least as long as the minimum duration of the computation that
// produced it.
type FreeSlot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Timezone        string

	// Description is a human-readable rendering of the slot, e.g.
	// "2025-03-14 from 10:00 to 13:00 (180 minutes) Europe/Berlin".
	// It is presentational only.
	Description string
}

// Warning records a provider entry that was dropped during normalization.
type Warning struct {
	AccountID AccountID
	Start     string
	End       string
	Reason    string
}

func (w Warning) String() string {
	if w.AccountID != "" {
		return fmt.Sprintf("account %s: dropped busy period [%s, %s): %s", w.AccountID, w.Start, w.End, w.Reason)
	}
	return fmt.Sprintf("dropped busy period [%s, %s): %s", w.Start, w.End, w.Reason)
}
