// Package availability computes free meeting time for one account and
// mutually free time across several accounts, given each account's busy
// intervals.
//
// The package is a pure computation core: busy intervals come from an
// injected BusyIntervalProvider, and all interval math (normalization,
// merging, complement within a working-hours window) is synchronous and
// side-effect free. All instants are absolute (UTC-backed) time.Time
// values; timezones only influence window boundaries and display.
//
// Example usage:
//
//	svc := availability.NewService(provider,
//	    availability.WithTimezone("Europe/Berlin"),
//	)
//
//	result, err := svc.FindFreeSlots(ctx, "default", "today", 30)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, slot := range result.Slots {
//	    fmt.Println(slot.Description)
//	}
package availability
