// Package drive_tools provides MCP tools for browsing and searching
// OneDrive files.
package drive_tools
