package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/lucident-ai/lucident/internal/availability"
	"github.com/lucident-ai/lucident/internal/google"
	"github.com/lucident-ai/lucident/internal/logging"
)

// freeBusyClient is the slice of Client the provider depends on. Tests
// substitute a fake; production uses *Client.
type freeBusyClient interface {
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error)
	Timezone(ctx context.Context) (string, error)
}

// clientFactory builds an authenticated client for an account.
type clientFactory func(ctx context.Context, account string) (freeBusyClient, error)

// Provider fetches busy periods from each account's primary Google
// calendar. Clients are created lazily and cached per account, so one
// mutual-availability request touching N accounts authenticates each
// account at most once.
type Provider struct {
	tokenProvider google.TokenProvider
	retry         RetryPolicy
	logger        *slog.Logger
	newClient     clientFactory

	mu      sync.Mutex
	clients map[string]freeBusyClient
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) ProviderOption {
	return func(p *Provider) { p.retry = policy }
}

// WithProviderLogger sets the structured logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

// withClientFactory substitutes the client constructor, for tests.
func withClientFactory(factory clientFactory) ProviderOption {
	return func(p *Provider) { p.newClient = factory }
}

// NewProvider creates a Provider whose clients authenticate through
// tokenProvider.
func NewProvider(tokenProvider google.TokenProvider, opts ...ProviderOption) *Provider {
	p := &Provider{
		tokenProvider: tokenProvider,
		retry:         DefaultRetryPolicy(),
		logger:        slog.Default(),
		clients:       make(map[string]freeBusyClient),
	}
	p.newClient = func(ctx context.Context, account string) (freeBusyClient, error) {
		return NewClientForAccountWithProvider(ctx, account, p.tokenProvider)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BusyPeriods implements availability.BusyIntervalProvider. It queries
// the account's primary calendar for busy intervals in [rangeStart,
// rangeEnd) and returns them as raw RFC3339 strings.
func (p *Provider) BusyPeriods(ctx context.Context, account availability.AccountID, rangeStart, rangeEnd time.Time) ([]availability.RawBusyPeriod, error) {
	client, err := p.clientFor(ctx, string(account))
	if err != nil {
		return nil, providerError(account, err)
	}

	infos, err := retryQuery(ctx, p.retry, func() ([]FreeBusyInfo, error) {
		return client.QueryFreeBusy(ctx, rangeStart, rangeEnd, []string{"primary"})
	})
	if err != nil {
		p.logger.WarnContext(ctx, "freebusy query failed",
			logging.Account(string(account)),
			logging.Err(err),
		)
		return nil, providerError(account, err)
	}

	primary, ok := findCalendar(infos, "primary")
	if !ok {
		return nil, &availability.ProviderError{
			AccountID: account,
			Message:   "freebusy response is missing the primary calendar",
			Err:       availability.ErrNoPrimaryCalendarData,
		}
	}
	if len(primary.Errors) > 0 {
		return nil, &availability.ProviderError{
			AccountID: account,
			Message:   fmt.Sprintf("primary calendar lookup failed: %v", primary.Errors),
			Err:       availability.ErrNoPrimaryCalendarData,
		}
	}

	raw := make([]availability.RawBusyPeriod, 0, len(primary.Busy))
	for _, b := range primary.Busy {
		raw = append(raw, availability.RawBusyPeriod{Start: b.Start, End: b.End})
	}
	return raw, nil
}

func (p *Provider) clientFor(ctx context.Context, account string) (freeBusyClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[account]; ok {
		return client, nil
	}
	client, err := p.newClient(ctx, account)
	if err != nil {
		return nil, err
	}
	p.clients[account] = client
	return client, nil
}

func findCalendar(infos []FreeBusyInfo, id string) (FreeBusyInfo, bool) {
	for _, info := range infos {
		if info.Calendar == id {
			return info, true
		}
	}
	return FreeBusyInfo{}, false
}

// providerError wraps err into availability.ProviderError, lifting the
// HTTP status code when the cause is a Google API error.
func providerError(account availability.AccountID, err error) error {
	var perr *availability.ProviderError
	if errors.As(err, &perr) {
		return err
	}

	code := 0
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	return &availability.ProviderError{
		AccountID: account,
		Code:      code,
		Message:   err.Error(),
		Err:       err,
	}
}

// Timezone reports the IANA timezone configured on the account's primary
// calendar. Callers fall back to their own default when the lookup fails.
func (p *Provider) Timezone(ctx context.Context, account string) (string, error) {
	client, err := p.clientFor(ctx, account)
	if err != nil {
		return "", err
	}
	return retryQuery(ctx, p.retry, func() (string, error) {
		return client.Timezone(ctx)
	})
}

// QueryFreeBusy runs a raw free/busy query as the account, reusing the
// provider's cached client and retry policy. Unlike BusyPeriods it can
// target any calendar IDs visible to the account.
func (p *Provider) QueryFreeBusy(ctx context.Context, account string, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	client, err := p.clientFor(ctx, account)
	if err != nil {
		return nil, err
	}
	return retryQuery(ctx, p.retry, func() ([]FreeBusyInfo, error) {
		return client.QueryFreeBusy(ctx, timeMin, timeMax, calendarIDs)
	})
}
