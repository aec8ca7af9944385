// Package calendar_tools provides MCP tools for listing, creating, and
// responding to calendar events, plus free/busy lookups.
package calendar_tools
