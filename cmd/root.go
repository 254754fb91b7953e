package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the lucident application
var rootCmd = &cobra.Command{
	Use:   "lucident",
	Short: "Finds free time in Google calendars",
	Long: `lucident answers scheduling questions over Google Calendar free/busy
data: free slots within one account's working hours, and mutual free
slots across several accounts.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "lucident version %s\n" .Version}}`)

	// If no subcommand is provided, run the slots command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "slots")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("lucident version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
