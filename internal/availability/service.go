package availability

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lucident-ai/lucident/internal/logging"
)

// Defaults applied by callers (the tool and CLI layers) when the user does
// not specify a value. The service itself treats zero as "no filtering" /
// "no truncation" so property checks can run unfiltered.
const (
	DefaultMinSlotMinutes       = 30
	DefaultMutualMinSlotMinutes = 120
	DefaultMaxMutualSlots       = 3
	DefaultTimezone             = "UTC"
)

// BusyIntervalProvider fetches raw busy periods for an account over a time
// range. Implementations perform I/O and must honor ctx cancellation.
type BusyIntervalProvider interface {
	BusyPeriods(ctx context.Context, account AccountID, rangeStart, rangeEnd time.Time) ([]RawBusyPeriod, error)
}

// Service computes single-account and mutual availability. The provider is
// injected explicitly; the service keeps no global state and every call is
// request-scoped.
type Service struct {
	provider  BusyIntervalProvider
	timezone  string
	workStart string
	workEnd   string
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTimezone sets the IANA timezone used to resolve working-hours
// windows. Defaults to UTC.
func WithTimezone(tz string) Option {
	return func(s *Service) { s.timezone = tz }
}

// WithWorkingHours overrides the default 09:00-17:00 working hours.
// Values are HH:MM local-time strings.
func WithWorkingHours(start, end string) Option {
	return func(s *Service) { s.workStart, s.workEnd = start, end }
}

// WithLogger sets the structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an availability service backed by the given provider.
func NewService(provider BusyIntervalProvider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		timezone:  DefaultTimezone,
		workStart: DefaultWorkStart,
		workEnd:   DefaultWorkEnd,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WorkingHours describes the window boundaries of a result as HH:MM
// local-time strings.
type WorkingHours struct {
	Start string
	End   string
}

// FreeSlotsResult is the outcome of a single-account availability query.
type FreeSlotsResult struct {
	Date               string
	Slots              []FreeSlot
	MinDurationMinutes int
	WorkingHours       WorkingHours
	Timezone           string
	Warnings           []Warning
}

// AccountFailure records a per-account fetch failure tolerated in
// partial-results mode.
type AccountFailure struct {
	AccountID AccountID
	Err       error
}

// MutualSlotsResult is the outcome of a multi-account availability query.
type MutualSlotsResult struct {
	Date               string
	Slots              []FreeSlot
	MinDurationMinutes int
	AccountsChecked    []AccountID
	FailedAccounts     []AccountFailure
	WorkingHours       WorkingHours
	Timezone           string
	Warnings           []Warning
}

// FindFreeSlots computes the free slots of at least minDurationMinutes for
// one account on the day named by dateExpr. A non-positive
// minDurationMinutes disables filtering.
func (s *Service) FindFreeSlots(ctx context.Context, account AccountID, dateExpr string, minDurationMinutes int) (*FreeSlotsResult, error) {
	if minDurationMinutes < 0 {
		minDurationMinutes = 0
	}

	window, err := s.resolveWindow(dateExpr)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetchBusy(ctx, account, window)
	if err != nil {
		return nil, err
	}

	intervals, warnings := NormalizeBusy(account, raw, window.DayStart.Location())
	merged := MergeIntervals(intervals)
	slots := ComputeFreeSlots(merged, window, minDurationMinutes)

	workStart, workEnd := window.Clock()
	s.logger.InfoContext(ctx, "computed free slots",
		logging.Account(string(account)),
		logging.Date(window.Date()),
		slog.Int("busy_periods", len(merged)),
		slog.Int("free_slots", len(slots)),
	)

	return &FreeSlotsResult{
		Date:               window.Date(),
		Slots:              slots,
		MinDurationMinutes: minDurationMinutes,
		WorkingHours:       WorkingHours{Start: workStart, End: workEnd},
		Timezone:           window.Timezone,
		Warnings:           warnings,
	}, nil
}

// MutualOption configures a mutual-availability query.
type MutualOption func(*mutualConfig)

type mutualConfig struct {
	partialResults bool
}

// WithPartialResults tolerates fetch failures of secondary accounts:
// instead of aborting the whole request, failed accounts are reported in
// MutualSlotsResult.FailedAccounts and availability is computed from the
// accounts that succeeded. A failure of the primary account still aborts.
func WithPartialResults() MutualOption {
	return func(c *mutualConfig) { c.partialResults = true }
}

// FindMutualFreeSlots computes slots where every account is free on the day
// named by dateExpr, truncated to the earliest maxSlots entries. Mutual
// free time is the complement of the union of all accounts' busy time, so
// the combined busy set is merged exactly as for a single account.
//
// Per-account fetches run concurrently; by default the first failure
// cancels the rest and aborts the request (see WithPartialResults).
func (s *Service) FindMutualFreeSlots(ctx context.Context, primary AccountID, others []AccountID, dateExpr string, minDurationMinutes, maxSlots int, opts ...MutualOption) (*MutualSlotsResult, error) {
	var cfg mutualConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if minDurationMinutes < 0 {
		minDurationMinutes = 0
	}

	window, err := s.resolveWindow(dateExpr)
	if err != nil {
		return nil, err
	}

	accounts := make([]AccountID, 0, 1+len(others))
	accounts = append(accounts, primary)
	accounts = append(accounts, others...)

	// One fetch per account; results land in fixed slots so the combined
	// order is deterministic regardless of completion order.
	fetched := make([][]RawBusyPeriod, len(accounts))
	failures := make([]error, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		g.Go(func() error {
			raw, err := s.fetchBusy(gctx, account, window)
			if err != nil {
				if cfg.partialResults && account != primary {
					failures[i] = err
					return nil
				}
				return err
			}
			fetched[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []TimeInterval
	var warnings []Warning
	var failed []AccountFailure
	for i, account := range accounts {
		if failures[i] != nil {
			failed = append(failed, AccountFailure{AccountID: account, Err: failures[i]})
			s.logger.WarnContext(ctx, "skipping account after fetch failure",
				logging.Account(string(account)),
				logging.Err(failures[i]),
			)
			continue
		}
		intervals, w := NormalizeBusy(account, fetched[i], window.DayStart.Location())
		combined = append(combined, intervals...)
		warnings = append(warnings, w...)
	}

	merged := MergeIntervals(combined)
	slots := ComputeFreeSlots(merged, window, minDurationMinutes)

	// ComputeFreeSlots emits in order, but the sort is kept explicit so the
	// result never depends on fetch completion order.
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	if maxSlots > 0 && len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}

	workStart, workEnd := window.Clock()
	s.logger.InfoContext(ctx, "computed mutual free slots",
		logging.Account(string(primary)),
		logging.Date(window.Date()),
		slog.Int("accounts", len(accounts)),
		slog.Int("busy_periods", len(merged)),
		slog.Int("free_slots", len(slots)),
	)

	return &MutualSlotsResult{
		Date:               window.Date(),
		Slots:              slots,
		MinDurationMinutes: minDurationMinutes,
		AccountsChecked:    accounts,
		FailedAccounts:     failed,
		WorkingHours:       WorkingHours{Start: workStart, End: workEnd},
		Timezone:           window.Timezone,
		Warnings:           warnings,
	}, nil
}

func (s *Service) resolveWindow(dateExpr string) (WorkingHoursWindow, error) {
	return resolveWindowAt(s.now(), dateExpr, s.timezone, s.workStart, s.workEnd)
}

// fetchBusy retrieves the account's raw busy periods over the resolved
// calendar day and normalizes fetch errors into ProviderError.
func (s *Service) fetchBusy(ctx context.Context, account AccountID, window WorkingHoursWindow) ([]RawBusyPeriod, error) {
	rangeStart := window.DayStart
	rangeEnd := window.DayStart.Add(24 * time.Hour)

	raw, err := s.provider.BusyPeriods(ctx, account, rangeStart, rangeEnd)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &ProviderError{AccountID: account, Message: err.Error(), Err: err}
	}
	return raw, nil
}
