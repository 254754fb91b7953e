package calendar

// BusyPeriod is one busy interval as reported by the free/busy API. Start
// and End are RFC3339 strings passed through unparsed.
type BusyPeriod struct {
	Start string
	End   string
}

// FreeBusyInfo represents availability information for one calendar.
type FreeBusyInfo struct {
	Calendar string
	Busy     []BusyPeriod
	Errors   []string
}
