// Package calendar_tools provides MCP (Model Context Protocol) tools for
// calendar availability.
//
// The tools answer scheduling questions over Google Calendar free/busy
// data: raw free/busy queries for a time range, free slots within one
// account's working hours, and mutual free slots across several accounts.
// All tools support multi-account authentication.
package calendar_tools
