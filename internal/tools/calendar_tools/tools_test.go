package calendar_tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/oauth2"

	"github.com/lucident-ai/lucident/internal/availability"
	"github.com/lucident-ai/lucident/internal/server"
)

// stubBusyProvider serves canned busy periods per account.
type stubBusyProvider struct {
	busy map[availability.AccountID][]availability.RawBusyPeriod
	errs map[availability.AccountID]error
}

func (p *stubBusyProvider) BusyPeriods(ctx context.Context, account availability.AccountID, rangeStart, rangeEnd time.Time) ([]availability.RawBusyPeriod, error) {
	if err, ok := p.errs[account]; ok {
		return nil, err
	}
	return p.busy[account], nil
}

// staticTokenProvider reports tokens for a fixed set of accounts.
type staticTokenProvider struct {
	accounts map[string]bool
}

func (p *staticTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "test-token"}, nil
}

func (p *staticTokenProvider) HasTokenForAccount(account string) bool {
	return p.accounts[account]
}

func newToolContext(t *testing.T, stub *stubBusyProvider, accounts ...string) *server.ServerContext {
	t.Helper()

	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a] = true
	}

	sc, err := server.NewServerContextWithTokenProvider(context.Background(), server.Config{}, &staticTokenProvider{accounts: known})
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })

	sc.SetAvailabilityService(availability.NewService(stub))
	return sc
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool returned empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	sc := newToolContext(t, &stubBusyProvider{}, "default")
	s := mcpserver.NewMCPServer("test-server", "0.0.1")

	if err := RegisterCalendarTools(s, sc); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestHandleFindFreeSlots(t *testing.T) {
	stub := &stubBusyProvider{
		busy: map[availability.AccountID][]availability.RawBusyPeriod{
			"default": {
				{Start: "2025-03-14T12:00:00Z", End: "2025-03-14T13:00:00Z"},
			},
		},
	}
	sc := newToolContext(t, stub, "default")

	request := callRequest("calendar_find_free_slots", map[string]interface{}{
		"date": "2025-03-14",
	})

	result, err := handleFindFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindFreeSlots() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleFindFreeSlots() returned error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{
		"2025-03-14 from 09:00 to 12:00 (180 minutes) UTC",
		"2025-03-14 from 13:00 to 17:00 (240 minutes) UTC",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleFindFreeSlots_MinDurationFilter(t *testing.T) {
	stub := &stubBusyProvider{
		busy: map[availability.AccountID][]availability.RawBusyPeriod{
			"default": {
				{Start: "2025-03-14T09:30:00Z", End: "2025-03-14T16:00:00Z"},
			},
		},
	}
	sc := newToolContext(t, stub, "default")

	// Gaps are 30 and 60 minutes; a 45-minute floor keeps only the second.
	request := callRequest("calendar_find_free_slots", map[string]interface{}{
		"date":               "2025-03-14",
		"minDurationMinutes": float64(45),
	})

	result, err := handleFindFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindFreeSlots() error = %v", err)
	}

	text := resultText(t, result)
	if strings.Contains(text, "09:00 to 09:30") {
		t.Errorf("30-minute slot should have been filtered out:\n%s", text)
	}
	if !strings.Contains(text, "16:00 to 17:00 (60 minutes)") {
		t.Errorf("expected 60-minute slot in result:\n%s", text)
	}
}

func TestHandleFindFreeSlots_InvalidDate(t *testing.T) {
	sc := newToolContext(t, &stubBusyProvider{}, "default")

	request := callRequest("calendar_find_free_slots", map[string]interface{}{
		"date": "not-a-date",
	})

	result, err := handleFindFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindFreeSlots() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for invalid date")
	}
	if text := resultText(t, result); !strings.Contains(text, "Invalid date") {
		t.Errorf("expected invalid-date message, got: %s", text)
	}
}

func TestHandleFindFreeSlots_MissingToken(t *testing.T) {
	sc := newToolContext(t, &stubBusyProvider{}, "default")

	request := callRequest("calendar_find_free_slots", map[string]interface{}{
		"account": "nobody",
		"date":    "2025-03-14",
	})

	result, err := handleFindFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindFreeSlots() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing token")
	}
	if text := resultText(t, result); !strings.Contains(text, "nobody") {
		t.Errorf("expected authorization instructions naming the account, got: %s", text)
	}
}

func TestHandleFindMutualFreeSlots(t *testing.T) {
	stub := &stubBusyProvider{
		busy: map[availability.AccountID][]availability.RawBusyPeriod{
			"default": {
				{Start: "2025-03-14T09:00:00Z", End: "2025-03-14T10:30:00Z"},
			},
			"bob": {
				{Start: "2025-03-14T13:00:00Z", End: "2025-03-14T14:00:00Z"},
			},
		},
	}
	sc := newToolContext(t, stub, "default", "bob")

	request := callRequest("calendar_find_mutual_free_slots", map[string]interface{}{
		"attendees": "bob",
		"date":      "2025-03-14",
	})

	result, err := handleFindMutualFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindMutualFreeSlots() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleFindMutualFreeSlots() returned error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{
		"default, bob",
		"2025-03-14 from 10:30 to 13:00 (150 minutes) UTC",
		"2025-03-14 from 14:00 to 17:00 (180 minutes) UTC",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleFindMutualFreeSlots_MissingAttendees(t *testing.T) {
	sc := newToolContext(t, &stubBusyProvider{}, "default")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{
			name: "no attendees",
			args: map[string]interface{}{"date": "2025-03-14"},
		},
		{
			name: "empty attendees",
			args: map[string]interface{}{"attendees": "", "date": "2025-03-14"},
		},
		{
			name: "only primary listed",
			args: map[string]interface{}{"attendees": "default", "date": "2025-03-14"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := callRequest("calendar_find_mutual_free_slots", tt.args)

			result, err := handleFindMutualFreeSlots(context.Background(), request, sc)
			if err != nil {
				t.Fatalf("handleFindMutualFreeSlots() error = %v", err)
			}
			if !result.IsError {
				t.Error("expected error result")
			}
		})
	}
}

func TestHandleFindMutualFreeSlots_PartialResults(t *testing.T) {
	stub := &stubBusyProvider{
		busy: map[availability.AccountID][]availability.RawBusyPeriod{
			"default": {
				{Start: "2025-03-14T09:00:00Z", End: "2025-03-14T12:00:00Z"},
			},
		},
		errs: map[availability.AccountID]error{
			"bob": &availability.ProviderError{
				AccountID: "bob",
				Message:   "freebusy response is missing the primary calendar",
				Err:       availability.ErrNoPrimaryCalendarData,
			},
		},
	}
	sc := newToolContext(t, stub, "default", "bob")

	request := callRequest("calendar_find_mutual_free_slots", map[string]interface{}{
		"attendees":      "bob",
		"date":           "2025-03-14",
		"partialResults": true,
	})

	result, err := handleFindMutualFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindMutualFreeSlots() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("expected partial result, got error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "2025-03-14 from 12:00 to 17:00 (300 minutes) UTC") {
		t.Errorf("expected slot from remaining account:\n%s", text)
	}
	if !strings.Contains(text, "Skipped accounts") || !strings.Contains(text, "bob") {
		t.Errorf("expected skipped-account note for bob:\n%s", text)
	}
}

func TestHandleFindMutualFreeSlots_FailFast(t *testing.T) {
	stub := &stubBusyProvider{
		busy: map[availability.AccountID][]availability.RawBusyPeriod{
			"default": {},
		},
		errs: map[availability.AccountID]error{
			"bob": &availability.ProviderError{
				AccountID: "bob",
				Code:      503,
				Message:   "backend unavailable",
			},
		},
	}
	sc := newToolContext(t, stub, "default", "bob")

	request := callRequest("calendar_find_mutual_free_slots", map[string]interface{}{
		"attendees": "bob",
		"date":      "2025-03-14",
	})

	result, err := handleFindMutualFreeSlots(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleFindMutualFreeSlots() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result without partialResults")
	}
	if text := resultText(t, result); !strings.Contains(text, "bob") {
		t.Errorf("expected failing account in message, got: %s", text)
	}
}

func TestHandleQueryFreeBusy_Validation(t *testing.T) {
	sc := newToolContext(t, &stubBusyProvider{}, "default")

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "missing timeMin",
			args: map[string]interface{}{
				"timeMax":   "2025-03-14T17:00:00Z",
				"calendars": "primary",
			},
			want: "timeMin is required",
		},
		{
			name: "invalid timeMin",
			args: map[string]interface{}{
				"timeMin":   "yesterday-ish",
				"timeMax":   "2025-03-14T17:00:00Z",
				"calendars": "primary",
			},
			want: "Invalid timeMin",
		},
		{
			name: "missing calendars",
			args: map[string]interface{}{
				"timeMin": "2025-03-14T09:00:00Z",
				"timeMax": "2025-03-14T17:00:00Z",
			},
			want: "calendars is required",
		},
		{
			name: "inverted range",
			args: map[string]interface{}{
				"timeMin":   "2025-03-14T17:00:00Z",
				"timeMax":   "2025-03-14T09:00:00Z",
				"calendars": "primary",
			},
			want: "timeMax must be after timeMin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := callRequest("calendar_query_freebusy", tt.args)

			result, err := handleQueryFreeBusy(context.Background(), request, sc)
			if err != nil {
				t.Fatalf("handleQueryFreeBusy() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in message, got: %s", tt.want, text)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"alice,bob", []string{"alice", "bob"}},
		{" alice , bob ", []string{"alice", "bob"}},
		{"alice,,bob,", []string{"alice", "bob"}},
		{"alice", []string{"alice"}},
	}

	for _, tt := range tests {
		got := splitList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}
