package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/logging"
	"github.com/RyanLisse/flok/internal/server"
)

// ToolHandler is the handler signature the MCP server expects.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a per-invocation span,
// metrics, and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("list-mail", "mail", instrumentation.OperationList, sc, handler))
func InstrumentedToolHandler(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invocation := &instrumentation.ToolInvocation{
			Tool:        toolName,
			ServiceName: serviceName,
			Operation:   operation,
			StartTime:   time.Now(),
			Account:     AccountFromArgs(request.GetArguments()),
		}

		ctx, span := instrumentation.StartSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithTool(toolName).
				WithService(serviceName).
				WithOperation(operation).
				WithAccount(logging.AnonymizeAccount(invocation.Account)).
				WithReadOnly(sc.ReadOnly()).
				Build()...)
		invocation.CaptureTraceContext(ctx)

		result, err := handler(ctx, request)
		instrumentation.EndSpan(span, err)

		invocation.Duration = time.Since(invocation.StartTime)
		invocation.Success = err == nil && (result == nil || !result.IsError)
		if err != nil {
			invocation.Error = err.Error()
		}
		sc.Auditor().Record(ctx, invocation)

		return result, err
	}
}
