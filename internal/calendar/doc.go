// Package calendar provides a client for the Google Calendar free/busy
// API and adapts it to the availability service's provider interface.
//
// The client supports multi-account authentication via the Google OAuth2
// flow. Busy periods are returned as the RFC3339 strings the API sends;
// parsing and validation happen in the availability package so a single
// malformed entry never fails a whole query.
//
// Example usage:
//
//	ctx := context.Background()
//	provider := calendar.NewProvider(google.NewFileTokenProvider())
//	svc := availability.NewService(provider)
//	result, err := svc.FindFreeSlots(ctx, "default", "today", 30)
package calendar
