package availability

import (
	"fmt"
	"time"
)

// ComputeFreeSlots subtracts a merged, sorted busy set from the window and
// returns the gaps of at least minDurationMinutes, ordered by start. Busy
// intervals are clipped to the window; intervals entirely outside it are
// ignored. A minDurationMinutes of zero disables filtering.
func ComputeFreeSlots(busy []TimeInterval, window WorkingHoursWindow, minDurationMinutes int) []FreeSlot {
	var slots []FreeSlot

	emit := func(start, end time.Time) {
		minutes := int(end.Sub(start) / time.Minute)
		if minutes < minDurationMinutes {
			return
		}
		slots = append(slots, newFreeSlot(start, end, minutes, window))
	}

	cur := window.Start
	for _, b := range busy {
		// Clip to the window; skip intervals with no overlap.
		if !b.End.After(window.Start) || !b.Start.Before(window.End) {
			continue
		}
		start := b.Start
		if start.Before(window.Start) {
			start = window.Start
		}
		end := b.End
		if end.After(window.End) {
			end = window.End
		}

		if cur.Before(start) {
			emit(cur, start)
		}
		if end.After(cur) {
			cur = end
		}
	}

	if cur.Before(window.End) {
		emit(cur, window.End)
	}

	return slots
}

func newFreeSlot(start, end time.Time, minutes int, window WorkingHoursWindow) FreeSlot {
	return FreeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: minutes,
		Timezone:        window.Timezone,
		Description: fmt.Sprintf("%s from %s to %s (%d minutes) %s",
			window.Date(), start.Format("15:04"), end.Format("15:04"), minutes, window.Timezone),
	}
}
