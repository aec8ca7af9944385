package mail_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/mail"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// RegisterMailTools registers mail tools with the MCP server.
func RegisterMailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list-mail",
		mcp.WithDescription("List messages from the inbox or a specified folder, newest first"),
		mcp.WithString("folder",
			mcp.Description("Folder name or ID (default: inbox)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of messages to return (default: 25)"),
		),
		mcp.WithBoolean("unreadOnly",
			mcp.Description("Only return unread messages"),
		),
		mcp.WithString("account",
			mcp.Description("Account name (default: the configured default account)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list-mail", "mail", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMail(ctx, request, sc)
		}))

	readTool := mcp.NewTool("read-mail",
		mcp.WithDescription("Get the full content of a message by ID"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Message ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(readTool, common.InstrumentedToolHandler("read-mail", "mail", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadMail(ctx, request, sc)
		}))

	searchTool := mcp.NewTool("search-mail",
		mcp.WithDescription("Search messages across all folders"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text, matched against subject, body, and senders"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of results (default: 25)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandler("search-mail", "mail", instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMail(ctx, request, sc)
		}))

	foldersTool := mcp.NewTool("list-mail-folders",
		mcp.WithDescription("List mail folders with their unread counts"),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(foldersTool, common.InstrumentedToolHandler("list-mail-folders", "mail", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFolders(ctx, request, sc)
		}))

	sendTool := mcp.NewTool("send-mail",
		mcp.WithDescription("Send a new email"),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address(es), comma-separated"),
		),
		mcp.WithBoolean("isHTML",
			mcp.Description("Whether the body is HTML (default: false for plain text)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(sendTool, common.InstrumentedToolHandler("send-mail", "mail", instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendMail(ctx, request, sc)
		}))

	replyTool := mcp.NewTool("reply-mail",
		mcp.WithDescription("Reply to a message"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Message ID to reply to"),
		),
		mcp.WithString("comment",
			mcp.Required(),
			mcp.Description("Reply text"),
		),
		mcp.WithBoolean("replyAll",
			mcp.Description("Reply to all recipients (default: false)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(replyTool, common.InstrumentedToolHandler("reply-mail", "mail", instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyMail(ctx, request, sc)
		}))

	moveTool := mcp.NewTool("move-mail",
		mcp.WithDescription("Move a message to a different folder"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Message ID to move"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination folder name or ID (e.g. archive, deleteditems)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(moveTool, common.InstrumentedToolHandler("move-mail", "mail", instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveMail(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete-mail",
		mcp.WithDescription("Delete a message (moves it to Deleted Items)"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Message ID to delete"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete-mail", "mail", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteMail(ctx, request, sc)
		}))

	return nil
}

func clientForRequest(request mcp.CallToolRequest, sc *server.ServerContext) (*mail.Client, *mcp.CallToolResult) {
	account, err := common.ResolveAccount(sc, request.GetArguments())
	if err != nil {
		return nil, common.FailErr(err)
	}
	return sc.MailClientForAccount(account), nil
}

func handleListMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	opts := mail.ListOptions{}
	if folder, ok := args["folder"].(string); ok {
		opts.Folder = folder
	}
	if count, ok := args["count"].(float64); ok {
		opts.Count = int(count)
	}
	if unread, ok := args["unreadOnly"].(bool); ok {
		opts.UnreadOnly = unread
	}

	messages, _, err := client.ListMessages(ctx, opts)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(messages, "read-mail", "reply-mail"), nil
}

func handleReadMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, ok := args["messageId"].(string)
	if !ok || id == "" {
		return common.Fail("'messageId' field is required"), nil
	}
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	msg, err := client.GetMessage(ctx, id, true)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(msg, "reply-mail", "move-mail"), nil
}

func handleSearchMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	messages, err := client.SearchMessages(ctx, query, count)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(messages, "read-mail"), nil
}

func handleListFolders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	folders, err := client.ListFolders(ctx)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(folders, "list-mail"), nil
}

func handleSendMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("send-mail"), nil
	}
	args := request.GetArguments()

	toStr, ok := args["to"].(string)
	if !ok || toStr == "" {
		return common.Fail("'to' field is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return common.Fail("'subject' field is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return common.Fail("'body' field is required"), nil
	}

	draft := mail.Draft{
		To:      splitAddresses(toStr),
		Subject: subject,
		Body:    body,
	}
	if cc, ok := args["cc"].(string); ok {
		draft.Cc = splitAddresses(cc)
	}
	if isHTML, ok := args["isHTML"].(bool); ok {
		draft.HTML = isHTML
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.Send(ctx, draft.Request()); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Email sent to "+strings.Join(draft.To, ", "), "list-mail"), nil
}

func handleReplyMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("reply-mail"), nil
	}
	args := request.GetArguments()

	id, ok := args["messageId"].(string)
	if !ok || id == "" {
		return common.Fail("'messageId' field is required"), nil
	}
	comment, ok := args["comment"].(string)
	if !ok || comment == "" {
		return common.Fail("'comment' field is required"), nil
	}
	replyAll := false
	if all, ok := args["replyAll"].(bool); ok {
		replyAll = all
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.Reply(ctx, id, comment, replyAll); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Reply sent", "list-mail"), nil
}

func handleMoveMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("move-mail"), nil
	}
	args := request.GetArguments()

	id, ok := args["messageId"].(string)
	if !ok || id == "" {
		return common.Fail("'messageId' field is required"), nil
	}
	dest, ok := args["destination"].(string)
	if !ok || dest == "" {
		return common.Fail("'destination' field is required"), nil
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	moved, err := client.Move(ctx, id, dest)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(moved, "list-mail"), nil
}

func handleDeleteMail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("delete-mail"), nil
	}
	args := request.GetArguments()

	id, ok := args["messageId"].(string)
	if !ok || id == "" {
		return common.Fail("'messageId' field is required"), nil
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.Delete(ctx, id); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Message deleted", "list-mail"), nil
}

func splitAddresses(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
