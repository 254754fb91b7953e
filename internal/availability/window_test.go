package availability

import (
	"errors"
	"testing"
	"time"
)

func TestResolveWindow_DateFormats(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dateExpr string
		wantDate string
	}{
		{"iso date", "2025-03-14", "2025-03-14"},
		{"today literal", "today", "2025-06-10"},
		{"today uppercase", "TODAY", "2025-06-10"},
		{"today with whitespace", "  today ", "2025-06-10"},
		{"tomorrow literal", "tomorrow", "2025-06-11"},
		{"tomorrow uppercase", "Tomorrow", "2025-06-11"},
		{"rfc3339 timestamp uses its date part", "2025-03-14T22:00:00-07:00", "2025-03-14"},
		{"us slash format", "03/14/2025", "2025-03-14"},
		{"slash format day first when month invalid", "25/12/2025", "2025-12-25"},
		{"month name first", "Mar 14 2025", "2025-03-14"},
		{"day before month name", "14 Mar 2025", "2025-03-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := resolveWindowAt(now, tt.dateExpr, "UTC", "", "")
			if err != nil {
				t.Fatalf("resolveWindowAt(%q) returned error: %v", tt.dateExpr, err)
			}
			if w.Date() != tt.wantDate {
				t.Errorf("resolved date = %s, expected %s", w.Date(), tt.wantDate)
			}
		})
	}
}

func TestResolveWindow_Defaults(t *testing.T) {
	now := time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)

	w, err := resolveWindowAt(now, "2025-03-14", "America/New_York", "", "")
	if err != nil {
		t.Fatalf("resolveWindowAt returned error: %v", err)
	}

	loc, _ := time.LoadLocation("America/New_York")
	if !w.Start.Equal(time.Date(2025, time.March, 14, 9, 0, 0, 0, loc)) {
		t.Errorf("window start = %v, expected 09:00 local", w.Start)
	}
	if !w.End.Equal(time.Date(2025, time.March, 14, 17, 0, 0, 0, loc)) {
		t.Errorf("window end = %v, expected 17:00 local", w.End)
	}
	if !w.DayStart.Equal(time.Date(2025, time.March, 14, 0, 0, 0, 0, loc)) {
		t.Errorf("day start = %v, expected local midnight", w.DayStart)
	}
	if w.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", w.Timezone)
	}
}

func TestResolveWindow_CustomHours(t *testing.T) {
	now := time.Now()

	w, err := resolveWindowAt(now, "2025-03-14", "UTC", "08:30", "12:15")
	if err != nil {
		t.Fatalf("resolveWindowAt returned error: %v", err)
	}
	if got := w.Start.Format("15:04"); got != "08:30" {
		t.Errorf("start clock = %s", got)
	}
	if got := w.End.Format("15:04"); got != "12:15" {
		t.Errorf("end clock = %s", got)
	}
}

func TestResolveWindow_Errors(t *testing.T) {
	now := time.Now()

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := resolveWindowAt(now, "2025-03-14", "Mars/Olympus", "", "")
		var tzErr *UnknownTimezoneError
		if !errors.As(err, &tzErr) {
			t.Fatalf("expected UnknownTimezoneError, got %v", err)
		}
		if tzErr.Timezone != "Mars/Olympus" {
			t.Errorf("error timezone = %q", tzErr.Timezone)
		}
	})

	t.Run("unparseable date", func(t *testing.T) {
		_, err := resolveWindowAt(now, "next tuesday", "UTC", "", "")
		var dateErr *InvalidDateError
		if !errors.As(err, &dateErr) {
			t.Fatalf("expected InvalidDateError, got %v", err)
		}
	})

	t.Run("malformed timestamp with T", func(t *testing.T) {
		_, err := resolveWindowAt(now, "2025-03-14Tlate", "UTC", "", "")
		var dateErr *InvalidDateError
		if !errors.As(err, &dateErr) {
			t.Fatalf("expected InvalidDateError, got %v", err)
		}
	})

	t.Run("bad working hours clock", func(t *testing.T) {
		_, err := resolveWindowAt(now, "2025-03-14", "UTC", "9am", "17:00")
		var whErr *InvalidWorkingHoursError
		if !errors.As(err, &whErr) {
			t.Fatalf("expected InvalidWorkingHoursError, got %v", err)
		}
	})

	t.Run("inverted working hours", func(t *testing.T) {
		_, err := resolveWindowAt(now, "2025-03-14", "UTC", "17:00", "09:00")
		var whErr *InvalidWorkingHoursError
		if !errors.As(err, &whErr) {
			t.Fatalf("expected InvalidWorkingHoursError, got %v", err)
		}
	})
}

// Weekday names resolve to the next occurrence of that weekday. The
// reference clock is Tuesday 2025-06-10.
func TestResolveWindow_WeekdayNames(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dateExpr string
		wantDate string
	}{
		{"later this week", "friday", "2025-06-13"},
		{"case insensitive", "MONDAY", "2025-06-16"},
		{"weekend", "Sunday", "2025-06-15"},
		{"same weekday means next week", "tuesday", "2025-06-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := resolveWindowAt(now, tt.dateExpr, "UTC", "", "")
			if err != nil {
				t.Fatalf("resolveWindowAt(%q) returned error: %v", tt.dateExpr, err)
			}
			if w.Date() != tt.wantDate {
				t.Errorf("resolved date = %s, expected %s", w.Date(), tt.wantDate)
			}
		})
	}
}

// "today" must follow the clock's date in the requested timezone, not the
// server's. Late evening UTC is already tomorrow in Tokyo.
func TestResolveWindow_TodayRespectsTimezone(t *testing.T) {
	now := time.Date(2025, time.June, 10, 23, 0, 0, 0, time.UTC)

	w, err := resolveWindowAt(now, "today", "Asia/Tokyo", "", "")
	if err != nil {
		t.Fatalf("resolveWindowAt returned error: %v", err)
	}
	if w.Date() != "2025-06-11" {
		t.Errorf("today in Tokyo = %s, expected 2025-06-11", w.Date())
	}
}
