package server

import (
	"context"
	"sync"

	"github.com/lucident-ai/lucident/internal/availability"
	"github.com/lucident-ai/lucident/internal/calendar"
	"github.com/lucident-ai/lucident/internal/google"
	"github.com/lucident-ai/lucident/internal/instrumentation"
	"github.com/lucident-ai/lucident/internal/logging"
)

// Config holds the settings a ServerContext is built from.
type Config struct {
	// Timezone is the IANA timezone availability is computed in (default UTC).
	Timezone string

	// WorkStart and WorkEnd bound the working day as HH:MM strings.
	// Empty values select 09:00-17:00.
	WorkStart string
	WorkEnd   string
}

// ServerContext wires the dependencies the MCP tools need: the token
// provider, the calendar provider with its per-account client cache, and
// the availability service. Tools receive it explicitly instead of
// reaching for globals.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config

	tokenProvider google.TokenProvider
	provider      *calendar.Provider
	availability  *availability.Service

	mu          sync.RWMutex
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	shutdown    bool
}

// NewServerContext creates a server context backed by file-based tokens.
func NewServerContext(ctx context.Context, cfg Config) (*ServerContext, error) {
	return NewServerContextWithTokenProvider(ctx, cfg, google.NewFileTokenProvider())
}

// NewServerContextWithTokenProvider creates a server context with a custom
// token provider.
func NewServerContextWithTokenProvider(ctx context.Context, cfg Config, tokenProvider google.TokenProvider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if cfg.Timezone == "" {
		cfg.Timezone = availability.DefaultTimezone
	}

	provider := calendar.NewProvider(tokenProvider,
		calendar.WithProviderLogger(logging.DefaultLogger().Logger()),
	)
	svc := availability.NewService(provider,
		availability.WithTimezone(cfg.Timezone),
		availability.WithWorkingHours(cfg.WorkStart, cfg.WorkEnd),
		availability.WithLogger(logging.DefaultLogger().Logger()),
	)

	return &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		cfg:           cfg,
		tokenProvider: tokenProvider,
		provider:      provider,
		availability:  svc,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Availability returns the availability service.
func (sc *ServerContext) Availability() *availability.Service {
	return sc.availability
}

// AvailabilityFor returns a service computing availability in the given
// timezone and working hours. Empty arguments fall back to the server's
// configured values; all-empty returns the shared service.
func (sc *ServerContext) AvailabilityFor(timezone, workStart, workEnd string) *availability.Service {
	if timezone == "" && workStart == "" && workEnd == "" {
		return sc.availability
	}
	opts := []availability.Option{
		availability.WithLogger(logging.DefaultLogger().Logger()),
	}
	if timezone != "" {
		opts = append(opts, availability.WithTimezone(timezone))
	} else {
		opts = append(opts, availability.WithTimezone(sc.cfg.Timezone))
	}
	if workStart == "" {
		workStart = sc.cfg.WorkStart
	}
	if workEnd == "" {
		workEnd = sc.cfg.WorkEnd
	}
	opts = append(opts, availability.WithWorkingHours(workStart, workEnd))
	return availability.NewService(sc.provider, opts...)
}

// SetAvailabilityService replaces the shared availability service. Used
// by tests to substitute a service backed by a fake provider.
func (sc *ServerContext) SetAvailabilityService(svc *availability.Service) {
	sc.availability = svc
}

// CalendarProvider returns the calendar busy-interval provider.
func (sc *ServerContext) CalendarProvider() *calendar.Provider {
	return sc.provider
}

// TokenProvider returns the OAuth token provider.
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	return sc.tokenProvider
}

// HasTokenForAccount reports whether the account can be queried.
func (sc *ServerContext) HasTokenForAccount(account string) bool {
	return sc.tokenProvider != nil && sc.tokenProvider.HasTokenForAccount(account)
}

// SetInstrumentation attaches metrics and audit logging from an
// instrumentation provider. Called once during startup; both are optional.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if provider != nil {
		sc.metrics = provider.Metrics()
	}
	sc.auditLogger = audit
}

// SetMetrics attaches a metrics recorder directly.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
