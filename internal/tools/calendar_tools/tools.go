package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/lucident-ai/lucident/internal/google"
	"github.com/lucident-ai/lucident/internal/server"
)

// RegisterCalendarTools registers all calendar tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}
	return nil
}

// requireToken checks that an OAuth token exists for the account and
// returns authorization instructions when it does not.
func requireToken(sc *server.ServerContext, account string) error {
	if sc.HasTokenForAccount(account) {
		return nil
	}
	return fmt.Errorf("%s", google.GetAuthenticationErrorMessage(account))
}
