// Package contact_tools provides MCP tools for listing and managing
// personal contacts.
package contact_tools
