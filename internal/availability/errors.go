package availability

import (
	"errors"
	"fmt"
)

// ErrNoPrimaryCalendarData indicates the provider response did not contain
// data for the account's primary calendar.
var ErrNoPrimaryCalendarData = errors.New("no primary calendar data in provider response")

// InvalidDateError is returned when a date expression matches none of the
// supported formats.
type InvalidDateError struct {
	Expr string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("cannot parse date %q: expected \"today\", \"tomorrow\", a weekday name, YYYY-MM-DD, an RFC3339 timestamp, or a common date format such as MM/DD/YYYY", e.Expr)
}

// UnknownTimezoneError is returned when a timezone name does not resolve in
// the IANA database.
type UnknownTimezoneError struct {
	Timezone string
	Err      error
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q: %v", e.Timezone, e.Err)
}

func (e *UnknownTimezoneError) Unwrap() error {
	return e.Err
}

// InvalidWorkingHoursError is returned when a working-hours override cannot
// be parsed or describes an empty window.
type InvalidWorkingHoursError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidWorkingHoursError) Error() string {
	return fmt.Sprintf("invalid working hours %s-%s: %s", e.Start, e.End, e.Reason)
}

// ProviderError is returned when a busy-interval fetch for an account fails.
// It carries enough context for the caller to know which account to retry.
type ProviderError struct {
	AccountID AccountID
	Code      int
	Message   string
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("busy interval fetch failed for account %s (code %d): %s", e.AccountID, e.Code, e.Message)
	}
	return fmt.Sprintf("busy interval fetch failed for account %s: %s", e.AccountID, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
