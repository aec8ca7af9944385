// Package common provides shared helpers for flok's MCP tools: the result
// envelope, account resolution from tool arguments, and the instrumented
// handler wrapper.
package common
