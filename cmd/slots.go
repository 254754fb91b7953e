package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucident-ai/lucident/internal/availability"
	"github.com/lucident-ai/lucident/internal/google"
	"github.com/lucident-ai/lucident/internal/server"
)

func newSlotsCmd() *cobra.Command {
	var (
		account     string
		date        string
		timezone    string
		workStart   string
		workEnd     string
		minDuration int
		with        string
		maxSlots    int
		partial     bool
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Find free slots in a Google calendar",
		Long: `Compute the free slots within working hours for one account on a given
day. With --with, compute the slots where all listed accounts are free
at the same time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := server.NewServerContext(ctx, server.Config{
				Timezone:  timezone,
				WorkStart: workStart,
				WorkEnd:   workEnd,
			})
			if err != nil {
				return fmt.Errorf("failed to create server context: %w", err)
			}
			defer func() {
				_ = sc.Shutdown()
			}()

			if !sc.HasTokenForAccount(account) {
				return errors.New(google.GetAuthenticationErrorMessage(account))
			}

			// Without an explicit timezone, prefer the one configured on
			// the account's primary calendar.
			svc := sc.Availability()
			if timezone == "" {
				if tz, err := sc.CalendarProvider().Timezone(ctx, account); err == nil && tz != "" {
					svc = sc.AvailabilityFor(tz, "", "")
				}
			}

			others := parseCommaSeparatedList(with)
			if len(others) == 0 {
				return printFreeSlots(ctx, svc, cmd, account, date, minDuration)
			}
			return printMutualFreeSlots(ctx, svc, cmd, account, others, date, minDuration, maxSlots, partial)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&date, "date", "today", "Day to check: 'today', 'tomorrow', a weekday name, or a date such as '2025-03-14'")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the working day (default: UTC)")
	cmd.Flags().StringVar(&workStart, "work-start", "", "Start of the working day as HH:MM (default: 09:00)")
	cmd.Flags().StringVar(&workEnd, "work-end", "", "End of the working day as HH:MM (default: 17:00)")
	cmd.Flags().IntVar(&minDuration, "min-duration", 0, "Minimum slot length in minutes (default: 30, or 120 with --with)")
	cmd.Flags().StringVar(&with, "with", "", "Comma-separated list of additional account names for mutual availability")
	cmd.Flags().IntVar(&maxSlots, "max-slots", availability.DefaultMaxMutualSlots, "Maximum number of mutual slots to print")
	cmd.Flags().BoolVar(&partial, "partial", false, "Continue when a non-primary account fails instead of aborting")

	return cmd
}

func printFreeSlots(ctx context.Context, svc *availability.Service, cmd *cobra.Command, account, date string, minDuration int) error {
	if minDuration == 0 {
		minDuration = availability.DefaultMinSlotMinutes
	}

	result, err := svc.FindFreeSlots(ctx, availability.AccountID(account), date, minDuration)
	if err != nil {
		return err
	}

	cmd.Printf("Free slots for %s on %s (%s, working hours %s-%s):\n",
		account, result.Date, result.Timezone, result.WorkingHours.Start, result.WorkingHours.End)
	if len(result.Slots) == 0 {
		cmd.Printf("  none of at least %d minutes\n", result.MinDurationMinutes)
	}
	for _, slot := range result.Slots {
		cmd.Printf("  %s\n", slot.Description)
	}
	printWarnings(cmd, result.Warnings)
	return nil
}

func printMutualFreeSlots(ctx context.Context, svc *availability.Service, cmd *cobra.Command, account string, others []string, date string, minDuration, maxSlots int, partial bool) error {
	if minDuration == 0 {
		minDuration = availability.DefaultMutualMinSlotMinutes
	}

	ids := make([]availability.AccountID, 0, len(others))
	for _, name := range others {
		if name == account {
			continue
		}
		ids = append(ids, availability.AccountID(name))
	}
	if len(ids) == 0 {
		return errors.New("--with must name at least one account other than --account")
	}

	var opts []availability.MutualOption
	if partial {
		opts = append(opts, availability.WithPartialResults())
	}

	result, err := svc.FindMutualFreeSlots(ctx, availability.AccountID(account), ids, date, minDuration, maxSlots, opts...)
	if err != nil {
		return err
	}

	checked := make([]string, 0, len(result.AccountsChecked))
	for _, id := range result.AccountsChecked {
		checked = append(checked, string(id))
	}

	cmd.Printf("Mutual free slots for %s on %s (%s, working hours %s-%s):\n",
		strings.Join(checked, ", "), result.Date, result.Timezone, result.WorkingHours.Start, result.WorkingHours.End)
	if len(result.Slots) == 0 {
		cmd.Printf("  none of at least %d minutes\n", result.MinDurationMinutes)
	}
	for _, slot := range result.Slots {
		cmd.Printf("  %s\n", slot.Description)
	}
	for _, failure := range result.FailedAccounts {
		cmd.Printf("Skipped %s: %v\n", failure.AccountID, failure.Err)
	}
	printWarnings(cmd, result.Warnings)
	return nil
}

func printWarnings(cmd *cobra.Command, warnings []availability.Warning) {
	for _, w := range warnings {
		cmd.Printf("Warning: %s\n", w)
	}
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
