// Package resources provides MCP resources that inject context into agent
// sessions: the inbox summary and today's calendar. Resources are read-only
// and resolved against the default account.
package resources
