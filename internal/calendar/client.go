package calendar

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/lucident-ai/lucident/internal/google"
)

// Client wraps the Google Calendar service for free/busy queries.
type Client struct {
	svc           *calendar.Service
	account       string
	tokenProvider google.TokenProvider
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return HasTokenForAccountWithProvider(account, google.NewFileTokenProvider())
}

// NewClientForAccountWithProvider creates a Calendar client authenticated
// as the given account, with the OAuth token coming from tokenProvider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:           svc,
		account:       account,
		tokenProvider: tokenProvider,
	}, nil
}

// NewClientForAccount creates a Calendar client for the account using the
// default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// Timezone returns the IANA timezone configured on the account's primary
// calendar.
func (c *Client) Timezone(ctx context.Context) (string, error) {
	cal, err := c.svc.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read primary calendar: %w", err)
	}
	return cal.TimeZone, nil
}

// QueryFreeBusy checks availability for the given calendars over a time
// range. Results are ordered by calendar ID; busy periods stay in the
// RFC3339 form the API returned.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	// The response is a map; sort the keys so output order is stable.
	ids := make([]string, 0, len(result.Calendars))
	for id := range result.Calendars {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]FreeBusyInfo, 0, len(ids))
	for _, id := range ids {
		cal := result.Calendars[id]
		info := FreeBusyInfo{Calendar: id}
		for _, busy := range cal.Busy {
			info.Busy = append(info.Busy, BusyPeriod{Start: busy.Start, End: busy.End})
		}
		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}
		infos = append(infos, info)
	}

	return infos, nil
}
