package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucident-ai/lucident/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth [account]",
		Short: "Authorize a Google account",
		Long: `Run the OAuth flow for a Google account and store the resulting token
locally. The account name is a local label such as 'work' or 'personal';
it defaults to 'default'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := "default"
			if len(args) > 0 {
				account = args[0]
			}

			if google.HasTokenForAccount(account) {
				cmd.Printf("Account %q is already authorized. Continuing will replace the stored token.\n\n", account)
			}

			cmd.Printf("Visit this URL in your browser and grant access:\n\n  %s\n\n", google.GetAuthURLForAccount(account))
			cmd.Print("Enter the authorization code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}

			cmd.Printf("Token saved for account %q.\n", account)
			return nil
		},
	}

	return cmd
}
