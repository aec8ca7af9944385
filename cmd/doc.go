// Package cmd implements the flok command line interface: device-code
// sign-in, mail, calendar, contacts, and drive commands, a raw Graph
// escape hatch, and the MCP server entry point.
package cmd
