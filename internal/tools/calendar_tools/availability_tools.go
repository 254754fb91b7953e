package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/lucident-ai/lucident/internal/availability"
	"github.com/lucident-ai/lucident/internal/instrumentation"
	"github.com/lucident-ai/lucident/internal/server"
	"github.com/lucident-ai/lucident/internal/tools/common"
)

// RegisterAvailabilityTools registers the free/busy and free-slot tools
// with the MCP server.
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	queryFreeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Check availability for one or more calendars in a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2025-01-31T23:59:59Z')"),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated list of calendar IDs or email addresses to check"),
		),
	)

	s.AddTool(queryFreeBusyTool, common.InstrumentedToolHandlerWithService(
		"calendar_query_freebusy", instrumentation.ServiceCalendar, instrumentation.OperationFreeBusy, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQueryFreeBusy(ctx, request, sc)
		}))

	findFreeSlotsTool := mcp.NewTool("calendar_find_free_slots",
		mcp.WithDescription("Find free slots in an account's working hours on a given day"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("date",
			mcp.Description("Day to check: 'today', 'tomorrow', a weekday name, or a date such as '2025-03-14' (default: today)"),
		),
		mcp.WithNumber("minDurationMinutes",
			mcp.Description(fmt.Sprintf("Minimum slot length in minutes (default: %d)", availability.DefaultMinSlotMinutes)),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone for the working day (default: server timezone)"),
		),
		mcp.WithString("workStart",
			mcp.Description("Start of the working day as HH:MM (default: server setting)"),
		),
		mcp.WithString("workEnd",
			mcp.Description("End of the working day as HH:MM (default: server setting)"),
		),
	)

	s.AddTool(findFreeSlotsTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_free_slots", instrumentation.ServiceCalendar, instrumentation.OperationFreeSlots, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindFreeSlots(ctx, request, sc)
		}))

	findMutualFreeSlotsTool := mcp.NewTool("calendar_find_mutual_free_slots",
		mcp.WithDescription("Find time slots where all given accounts are free on a given day"),
		mcp.WithString("account",
			mcp.Description("Primary account name (default: 'default')"),
		),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated list of additional account names to check"),
		),
		mcp.WithString("date",
			mcp.Description("Day to check: 'today', 'tomorrow', a weekday name, or a date such as '2025-03-14' (default: today)"),
		),
		mcp.WithNumber("minDurationMinutes",
			mcp.Description(fmt.Sprintf("Minimum slot length in minutes (default: %d)", availability.DefaultMutualMinSlotMinutes)),
		),
		mcp.WithNumber("maxSlots",
			mcp.Description(fmt.Sprintf("Maximum number of slots to return (default: %d)", availability.DefaultMaxMutualSlots)),
		),
		mcp.WithBoolean("partialResults",
			mcp.Description("Continue when a non-primary account fails instead of aborting (default: false)"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone for the working day (default: server timezone)"),
		),
	)

	s.AddTool(findMutualFreeSlotsTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_mutual_free_slots", instrumentation.ServiceCalendar, instrumentation.OperationMutualFreeSlots, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindMutualFreeSlots(ctx, request, sc)
		}))

	return nil
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	if !timeMax.After(timeMin) {
		return mcp.NewToolResultError("timeMax must be after timeMin"), nil
	}

	calendarsStr, ok := args["calendars"].(string)
	if !ok || calendarsStr == "" {
		return mcp.NewToolResultError("calendars is required"), nil
	}
	calendars := splitList(calendarsStr)

	if err := requireToken(sc, account); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	infos, err := sc.CalendarProvider().QueryFreeBusy(ctx, account, timeMin, timeMax, calendars)
	if err != nil {
		recordAvailability(ctx, sc, instrumentation.OperationFreeBusy, instrumentation.StatusError, 0, 0)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}
	recordAvailability(ctx, sc, instrumentation.OperationFreeBusy, instrumentation.StatusSuccess, 0, 0)

	result := fmt.Sprintf("Free/Busy information for %d calendar(s):\n\n", len(infos))
	for _, info := range infos {
		result += fmt.Sprintf("Calendar: %s\n", info.Calendar)

		if len(info.Errors) > 0 {
			result += fmt.Sprintf("  Errors: %s\n", strings.Join(info.Errors, ", "))
		}

		if len(info.Busy) == 0 {
			result += "  Status: FREE for entire range\n"
		} else {
			result += fmt.Sprintf("  Busy periods: %d\n", len(info.Busy))
			for i, busy := range info.Busy {
				result += fmt.Sprintf("  %d. %s to %s\n", i+1, busy.Start, busy.End)
			}
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleFindFreeSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	dateExpr := "today"
	if dateVal, ok := args["date"].(string); ok && dateVal != "" {
		dateExpr = dateVal
	}

	minDuration := availability.DefaultMinSlotMinutes
	if minVal, ok := args["minDurationMinutes"].(float64); ok {
		if minVal < 0 {
			return mcp.NewToolResultError("minDurationMinutes must not be negative"), nil
		}
		minDuration = int(minVal)
	}

	if err := requireToken(sc, account); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc := serviceFromArgs(sc, args)
	result, err := svc.FindFreeSlots(ctx, availability.AccountID(account), dateExpr, minDuration)
	if err != nil {
		recordAvailability(ctx, sc, instrumentation.OperationFreeSlots, instrumentation.StatusError, 0, 0)
		return mcp.NewToolResultError(availabilityErrorMessage(err)), nil
	}
	recordAvailability(ctx, sc, instrumentation.OperationFreeSlots, instrumentation.StatusSuccess, len(result.Slots), len(result.Warnings))

	var out strings.Builder
	fmt.Fprintf(&out, "Free slots for %s on %s (%s, working hours %s-%s):\n\n",
		account, result.Date, result.Timezone, result.WorkingHours.Start, result.WorkingHours.End)

	if len(result.Slots) == 0 {
		fmt.Fprintf(&out, "No free slots of at least %d minutes found\n", result.MinDurationMinutes)
	} else {
		for i, slot := range result.Slots {
			fmt.Fprintf(&out, "%d. %s\n", i+1, slot.Description)
		}
	}
	writeWarnings(&out, result.Warnings)

	return mcp.NewToolResultText(out.String()), nil
}

func handleFindMutualFreeSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	attendeesStr, ok := args["attendees"].(string)
	if !ok || attendeesStr == "" {
		return mcp.NewToolResultError("attendees is required"), nil
	}
	var others []availability.AccountID
	for _, name := range splitList(attendeesStr) {
		if name == account {
			continue
		}
		others = append(others, availability.AccountID(name))
	}
	if len(others) == 0 {
		return mcp.NewToolResultError("attendees must name at least one account other than the primary"), nil
	}

	dateExpr := "today"
	if dateVal, ok := args["date"].(string); ok && dateVal != "" {
		dateExpr = dateVal
	}

	minDuration := availability.DefaultMutualMinSlotMinutes
	if minVal, ok := args["minDurationMinutes"].(float64); ok {
		if minVal < 0 {
			return mcp.NewToolResultError("minDurationMinutes must not be negative"), nil
		}
		minDuration = int(minVal)
	}

	maxSlots := availability.DefaultMaxMutualSlots
	if maxVal, ok := args["maxSlots"].(float64); ok && maxVal > 0 {
		maxSlots = int(maxVal)
	}

	var opts []availability.MutualOption
	if partial, ok := args["partialResults"].(bool); ok && partial {
		opts = append(opts, availability.WithPartialResults())
	}

	if err := requireToken(sc, account); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc := serviceFromArgs(sc, args)
	result, err := svc.FindMutualFreeSlots(ctx, availability.AccountID(account), others, dateExpr, minDuration, maxSlots, opts...)
	if err != nil {
		recordAvailability(ctx, sc, instrumentation.OperationMutualFreeSlots, instrumentation.StatusError, 0, 0)
		return mcp.NewToolResultError(availabilityErrorMessage(err)), nil
	}
	recordAvailability(ctx, sc, instrumentation.OperationMutualFreeSlots, instrumentation.StatusSuccess, len(result.Slots), len(result.Warnings))

	checked := make([]string, 0, len(result.AccountsChecked))
	for _, id := range result.AccountsChecked {
		checked = append(checked, string(id))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Mutual free slots for %s on %s (%s, working hours %s-%s):\n\n",
		strings.Join(checked, ", "), result.Date, result.Timezone, result.WorkingHours.Start, result.WorkingHours.End)

	if len(result.Slots) == 0 {
		fmt.Fprintf(&out, "No mutual free slots of at least %d minutes found\n", result.MinDurationMinutes)
	} else {
		for i, slot := range result.Slots {
			fmt.Fprintf(&out, "%d. %s\n", i+1, slot.Description)
		}
	}

	if len(result.FailedAccounts) > 0 {
		out.WriteString("\nSkipped accounts (no calendar data):\n")
		for _, failure := range result.FailedAccounts {
			fmt.Fprintf(&out, "- %s: %v\n", failure.AccountID, failure.Err)
		}
	}
	writeWarnings(&out, result.Warnings)

	return mcp.NewToolResultText(out.String()), nil
}

// serviceFromArgs selects the availability service honoring per-request
// timezone and working-hour overrides.
func serviceFromArgs(sc *server.ServerContext, args map[string]interface{}) *availability.Service {
	timezone, _ := args["timezone"].(string)
	workStart, _ := args["workStart"].(string)
	workEnd, _ := args["workEnd"].(string)
	return sc.AvailabilityFor(timezone, workStart, workEnd)
}

// availabilityErrorMessage renders service errors for tool consumers,
// keeping the typed failures distinguishable.
func availabilityErrorMessage(err error) string {
	var dateErr *availability.InvalidDateError
	if errors.As(err, &dateErr) {
		return fmt.Sprintf("Invalid date: %v", dateErr)
	}
	var tzErr *availability.UnknownTimezoneError
	if errors.As(err, &tzErr) {
		return fmt.Sprintf("Unknown timezone: %v", tzErr)
	}
	var hoursErr *availability.InvalidWorkingHoursError
	if errors.As(err, &hoursErr) {
		return fmt.Sprintf("Invalid working hours: %v", hoursErr)
	}
	var provErr *availability.ProviderError
	if errors.As(err, &provErr) {
		if errors.Is(err, availability.ErrNoPrimaryCalendarData) {
			return fmt.Sprintf("No calendar data for account %s: %v", provErr.AccountID, provErr)
		}
		return fmt.Sprintf("Calendar provider error for account %s: %v", provErr.AccountID, provErr)
	}
	return fmt.Sprintf("Failed to compute availability: %v", err)
}

func writeWarnings(out *strings.Builder, warnings []availability.Warning) {
	if len(warnings) == 0 {
		return
	}
	out.WriteString("\nWarnings:\n")
	for _, w := range warnings {
		fmt.Fprintf(out, "- %s\n", w)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func recordAvailability(ctx context.Context, sc *server.ServerContext, operation, status string, slots, dropped int) {
	if m := sc.Metrics(); m != nil {
		m.RecordAvailabilityRequest(ctx, operation, status, slots, dropped)
	}
}
