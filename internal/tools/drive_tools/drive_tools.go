package drive_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/drive"
	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// RegisterDriveTools registers OneDrive tools with the MCP server.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list-files",
		mcp.WithDescription("List files and folders in OneDrive"),
		mcp.WithString("path",
			mcp.Description("Folder path relative to the drive root (default: root)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of items to return (default: 50)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list-files", "drive", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	getTool := mcp.NewTool("get-file",
		mcp.WithDescription("Get file or folder metadata by ID"),
		mcp.WithString("itemId",
			mcp.Required(),
			mcp.Description("Drive item ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("get-file", "drive", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFile(ctx, request, sc)
		}))

	searchTool := mcp.NewTool("search-files",
		mcp.WithDescription("Search the whole drive for files matching a query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of results (default: 50)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandler("search-files", "drive", instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchFiles(ctx, request, sc)
		}))

	return nil
}

func clientForRequest(request mcp.CallToolRequest, sc *server.ServerContext) (*drive.Client, *mcp.CallToolResult) {
	account, err := common.ResolveAccount(sc, request.GetArguments())
	if err != nil {
		return nil, common.FailErr(err)
	}
	return sc.DriveClientForAccount(account), nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	path := ""
	if p, ok := args["path"].(string); ok {
		path = p
	}
	count := 0
	if c, ok := args["count"].(float64); ok {
		count = int(c)
	}

	items, _, err := client.ListChildren(ctx, path, count)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(items, "get-file", "list-files"), nil
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, ok := args["itemId"].(string)
	if !ok || id == "" {
		return common.Fail("'itemId' field is required"), nil
	}
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	item, err := client.GetItem(ctx, id)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(item, "list-files"), nil
}

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return common.Fail("'query' field is required"), nil
	}
	count := 0
	if c, ok := args["count"].(float64); ok {
		count = int(c)
	}
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	items, _, err := client.SearchItems(ctx, query, count)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(items, "get-file"), nil
}
