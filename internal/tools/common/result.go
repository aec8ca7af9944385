package common

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Result is the envelope every tool returns as its text content. NextActions
// names tools the caller will plausibly want next, so agents can chain calls
// without guessing.
type Result struct {
	Success     bool     `json:"success"`
	Data        string   `json:"data,omitempty"`
	Error       string   `json:"error,omitempty"`
	NextActions []string `json:"nextActions,omitempty"`
}

// Ok wraps data in a successful result.
func Ok(data string, nextActions ...string) *mcp.CallToolResult {
	return mcp.NewToolResultText(encodeResult(Result{
		Success:     true,
		Data:        data,
		NextActions: nextActions,
	}))
}

// OkJSON marshals v and wraps it in a successful result.
func OkJSON(v any, nextActions ...string) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return Fail("encoding result: " + err.Error())
	}
	return Ok(string(data), nextActions...)
}

// Fail wraps an error message in a failed result.
func Fail(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError(encodeResult(Result{
		Success: false,
		Error:   msg,
	}))
}

// FailErr wraps a Go error in a failed result.
func FailErr(err error) *mcp.CallToolResult {
	return Fail(err.Error())
}

// ReadOnlyError reports that a mutating tool is disabled.
func ReadOnlyError(tool string) *mcp.CallToolResult {
	return Fail("read-only mode: " + tool + " is disabled")
}

func encodeResult(r Result) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"encoding result"}`
	}
	return string(data)
}
