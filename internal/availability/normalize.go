package availability

import (
	"fmt"
	"time"
)

// NormalizeBusy parses provider-supplied busy periods into TimeIntervals
// expressed in loc. Entries that fail to parse, or that describe an empty
// or inverted interval, are dropped and reported as warnings; a bad entry
// never aborts normalization of the rest. Output order is unspecified.
func NormalizeBusy(account AccountID, raw []RawBusyPeriod, loc *time.Location) ([]TimeInterval, []Warning) {
	intervals := make([]TimeInterval, 0, len(raw))
	var warnings []Warning

	drop := func(p RawBusyPeriod, reason string) {
		warnings = append(warnings, Warning{
			AccountID: account,
			Start:     p.Start,
			End:       p.End,
			Reason:    reason,
		})
	}

	for _, p := range raw {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			drop(p, fmt.Sprintf("unparsable start: %v", err))
			continue
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			drop(p, fmt.Sprintf("unparsable end: %v", err))
			continue
		}

		interval, err := NewTimeInterval(start.In(loc), end.In(loc))
		if err != nil {
			drop(p, err.Error())
			continue
		}
		intervals = append(intervals, interval)
	}

	return intervals, warnings
}
