// Package mail_tools provides MCP tools for reading, searching, and
// sending mail. Mutating tools respect the server's read-only mode.
package mail_tools
