package availability

import (
	"strings"
	"time"
)

// Default working hours applied when the caller does not override them.
const (
	DefaultWorkStart = "09:00"
	DefaultWorkEnd   = "17:00"
)

// dateLayouts are tried in order after the ISO form. The ambiguous
// MM/DD/YYYY form wins over DD/MM/YYYY, matching common calendar input.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

// ResolveWindow turns a date expression and an IANA timezone into a
// concrete working-hours window for that day. The expression may be the
// literal "today" or "tomorrow" (case-insensitive), a weekday name, an
// ISO date, an RFC3339 timestamp (whose date part is used), or one of a
// few common date formats. Empty workStart/workEnd select the
// 09:00-17:00 default.
func ResolveWindow(dateExpr, timezone, workStart, workEnd string) (WorkingHoursWindow, error) {
	return resolveWindowAt(time.Now(), dateExpr, timezone, workStart, workEnd)
}

func resolveWindowAt(now time.Time, dateExpr, timezone, workStart, workEnd string) (WorkingHoursWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return WorkingHoursWindow{}, &UnknownTimezoneError{Timezone: timezone, Err: err}
	}

	day, err := resolveDay(now, dateExpr, loc)
	if err != nil {
		return WorkingHoursWindow{}, err
	}

	if workStart == "" {
		workStart = DefaultWorkStart
	}
	if workEnd == "" {
		workEnd = DefaultWorkEnd
	}

	start, err := atClock(day, workStart, loc)
	if err != nil {
		return WorkingHoursWindow{}, &InvalidWorkingHoursError{Start: workStart, End: workEnd, Reason: "start must be HH:MM"}
	}
	end, err := atClock(day, workEnd, loc)
	if err != nil {
		return WorkingHoursWindow{}, &InvalidWorkingHoursError{Start: workStart, End: workEnd, Reason: "end must be HH:MM"}
	}
	if !start.Before(end) {
		return WorkingHoursWindow{}, &InvalidWorkingHoursError{Start: workStart, End: workEnd, Reason: "start must be before end"}
	}

	return WorkingHoursWindow{
		DayStart: day,
		Start:    start,
		End:      end,
		Timezone: timezone,
	}, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// resolveDay returns midnight of the requested day in loc.
func resolveDay(now time.Time, dateExpr string, loc *time.Location) (time.Time, error) {
	expr := strings.TrimSpace(dateExpr)

	if strings.EqualFold(expr, "today") {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	if strings.EqualFold(expr, "tomorrow") {
		y, m, d := now.In(loc).AddDate(0, 0, 1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	if wd, ok := weekdays[strings.ToLower(expr)]; ok {
		local := now.In(loc)
		ahead := (int(wd) - int(local.Weekday()) + 7) % 7
		// A bare weekday name means the next occurrence, never today.
		if ahead == 0 {
			ahead = 7
		}
		y, m, d := local.AddDate(0, 0, ahead).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}

	// A "T" marks a full timestamp; its calendar date (as written, in its
	// own offset) selects the day.
	if strings.Contains(expr, "T") {
		t, err := time.Parse(time.RFC3339, expr)
		if err != nil {
			return time.Time{}, &InvalidDateError{Expr: dateExpr}
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, expr, loc)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}

	return time.Time{}, &InvalidDateError{Expr: dateExpr}
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}
