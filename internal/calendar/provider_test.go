package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/lucident-ai/lucident/internal/availability"
)

type fakeClient struct {
	infos    []FreeBusyInfo
	timezone string
	err      error
	queries  int
	lastMin  time.Time
	lastMax  time.Time
	lastIDs  []string
}

func (f *fakeClient) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	f.queries++
	f.lastMin, f.lastMax, f.lastIDs = timeMin, timeMax, calendarIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.infos, nil
}

func (f *fakeClient) Timezone(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.timezone, nil
}

func newTestProvider(clients map[string]*fakeClient, dials *int) *Provider {
	return NewProvider(nil,
		WithRetryPolicy(RetryPolicy{MaxAttempts: 1}),
		withClientFactory(func(ctx context.Context, account string) (freeBusyClient, error) {
			if dials != nil {
				*dials++
			}
			client, ok := clients[account]
			if !ok {
				return nil, errors.New("no token for account")
			}
			return client, nil
		}),
	)
}

func day(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func TestProviderBusyPeriods(t *testing.T) {
	client := &fakeClient{
		infos: []FreeBusyInfo{{
			Calendar: "primary",
			Busy: []BusyPeriod{
				{Start: "2025-03-14T10:00:00Z", End: "2025-03-14T11:00:00Z"},
			},
		}},
	}
	p := newTestProvider(map[string]*fakeClient{"alice": client}, nil)

	start, end := day(t)
	raw, err := p.BusyPeriods(context.Background(), "alice", start, end)
	require.NoError(t, err)

	require.Len(t, raw, 1)
	assert.Equal(t, "2025-03-14T10:00:00Z", raw[0].Start)
	assert.Equal(t, []string{"primary"}, client.lastIDs)
	assert.True(t, client.lastMin.Equal(start))
	assert.True(t, client.lastMax.Equal(end))
}

func TestProviderBusyPeriods_CachesClients(t *testing.T) {
	client := &fakeClient{infos: []FreeBusyInfo{{Calendar: "primary"}}}
	dials := 0
	p := newTestProvider(map[string]*fakeClient{"alice": client}, &dials)

	start, end := day(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := p.BusyPeriods(ctx, "alice", start, end)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, dials, "client should be created once per account")
	assert.Equal(t, 3, client.queries)
}

func TestProviderBusyPeriods_MissingPrimary(t *testing.T) {
	client := &fakeClient{infos: []FreeBusyInfo{{Calendar: "other@group.calendar.google.com"}}}
	p := newTestProvider(map[string]*fakeClient{"alice": client}, nil)

	start, end := day(t)
	_, err := p.BusyPeriods(context.Background(), "alice", start, end)
	require.ErrorIs(t, err, availability.ErrNoPrimaryCalendarData)

	var perr *availability.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, availability.AccountID("alice"), perr.AccountID)
}

func TestProviderBusyPeriods_PrimaryLookupErrors(t *testing.T) {
	client := &fakeClient{infos: []FreeBusyInfo{{
		Calendar: "primary",
		Errors:   []string{"notFound"},
	}}}
	p := newTestProvider(map[string]*fakeClient{"alice": client}, nil)

	start, end := day(t)
	_, err := p.BusyPeriods(context.Background(), "alice", start, end)
	require.ErrorIs(t, err, availability.ErrNoPrimaryCalendarData)
}

func TestProviderBusyPeriods_APIErrorCarriesCode(t *testing.T) {
	client := &fakeClient{err: &googleapi.Error{Code: 401, Message: "invalid credentials"}}
	p := newTestProvider(map[string]*fakeClient{"alice": client}, nil)

	start, end := day(t)
	_, err := p.BusyPeriods(context.Background(), "alice", start, end)

	var perr *availability.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 401, perr.Code)
	assert.Equal(t, availability.AccountID("alice"), perr.AccountID)
}

func TestProviderBusyPeriods_ClientCreationFailure(t *testing.T) {
	p := newTestProvider(map[string]*fakeClient{}, nil)

	start, end := day(t)
	_, err := p.BusyPeriods(context.Background(), "stranger", start, end)

	var perr *availability.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, availability.AccountID("stranger"), perr.AccountID)
}

func TestProviderTimezone(t *testing.T) {
	client := &fakeClient{timezone: "Europe/Berlin"}
	p := newTestProvider(map[string]*fakeClient{"alice": client}, nil)

	tz, err := p.Timezone(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz)

	_, err = p.Timezone(context.Background(), "nobody")
	assert.Error(t, err)
}
