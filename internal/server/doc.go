// Package server provides the MCP server context, session tracking, and
// the dedicated metrics endpoint for flok.
//
// # Key Components
//
// ServerContext manages Graph API clients with lazy initialization and
// caching. Each account gets one Graph client; mail, calendar, contacts,
// and drive clients are thin wrappers created on demand.
//
// SessionAccounts tracks the account each MCP session operates on when the
// server runs over HTTP, so several clients can share one instance.
//
// MetricsServer serves Prometheus metrics and a health check on a port
// separate from the MCP transport.
package server
