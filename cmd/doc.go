// Package cmd implements the command-line interface for lucident.
//
// This package provides the following commands:
//   - slots: Print free slots for one account, or mutual free slots across accounts
//   - auth: Authorize a Google account and store its OAuth token
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The slots command is the default command when no subcommand is specified.
package cmd
