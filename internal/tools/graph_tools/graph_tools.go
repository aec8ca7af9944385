package graph_tools

import (
	"context"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// RegisterGraphTools registers the raw Graph API escape hatch. It lets
// agents call any Graph endpoint, including ones without a dedicated tool.
// In read-only mode only GET requests are allowed.
func RegisterGraphTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	apiTool := mcp.NewTool("graph-api",
		mcp.WithDescription("Call any Microsoft Graph API endpoint directly. Use when no dedicated tool covers the endpoint."),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("HTTP method: GET, POST, PATCH, PUT, or DELETE"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Endpoint path, e.g. /me/messages or /me/drive/root"),
		),
		mcp.WithString("query",
			mcp.Description("URL query string, e.g. $top=10&$select=id,subject"),
		),
		mcp.WithString("body",
			mcp.Description("JSON request body for POST, PATCH, and PUT"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(apiTool, common.InstrumentedToolHandler("graph-api", "graph", "raw", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGraphAPI(ctx, request, sc)
		}))

	return nil
}

func handleGraphAPI(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	method, ok := args["method"].(string)
	if !ok || method == "" {
		return common.Fail("'method' field is required"), nil
	}
	method = strings.ToUpper(method)
	switch method {
	case "GET":
	case "POST", "PATCH", "PUT", "DELETE":
		if sc.ReadOnly() {
			return common.Fail("read-only mode: " + method + " is disabled"), nil
		}
	default:
		return common.Fail("unsupported HTTP method: " + method), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return common.Fail("'path' field is required"), nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var query url.Values
	if q, ok := args["query"].(string); ok && q != "" {
		parsed, err := url.ParseQuery(q)
		if err != nil {
			return common.Fail("invalid 'query': " + err.Error()), nil
		}
		query = parsed
	}

	var body []byte
	if b, ok := args["body"].(string); ok && b != "" {
		body = []byte(b)
	}

	account, err := common.ResolveAccount(sc, args)
	if err != nil {
		return common.FailErr(err), nil
	}
	client := sc.GraphClientForAccount(account)

	data, err := client.Raw(ctx, method, path, query, body, nil)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok(string(data)), nil
}
