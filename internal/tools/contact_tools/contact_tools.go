package contact_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/contacts"
	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// RegisterContactTools registers contact tools with the MCP server.
func RegisterContactTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list-contacts",
		mcp.WithDescription("List contacts, optionally narrowed by a search term"),
		mcp.WithString("search",
			mcp.Description("Search text matched against names and email addresses"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of contacts to return (default: 50)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list-contacts", "contacts", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListContacts(ctx, request, sc)
		}))

	getTool := mcp.NewTool("get-contact",
		mcp.WithDescription("Get full contact details by ID"),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("Contact ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("get-contact", "contacts", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetContact(ctx, request, sc)
		}))

	createTool := mcp.NewTool("create-contact",
		mcp.WithDescription("Create a new contact"),
		mcp.WithString("givenName",
			mcp.Required(),
			mcp.Description("First name"),
		),
		mcp.WithString("surname",
			mcp.Description("Last name"),
		),
		mcp.WithString("email",
			mcp.Description("Email address"),
		),
		mcp.WithString("businessPhones",
			mcp.Description("Business phone number(s), comma-separated"),
		),
		mcp.WithString("companyName",
			mcp.Description("Company name"),
		),
		mcp.WithString("jobTitle",
			mcp.Description("Job title"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("create-contact", "contacts", instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateContact(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("update-contact",
		mcp.WithDescription("Update fields on an existing contact"),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("Contact ID"),
		),
		mcp.WithString("givenName",
			mcp.Description("First name"),
		),
		mcp.WithString("surname",
			mcp.Description("Last name"),
		),
		mcp.WithString("companyName",
			mcp.Description("Company name"),
		),
		mcp.WithString("jobTitle",
			mcp.Description("Job title"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("update-contact", "contacts", instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateContact(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete-contact",
		mcp.WithDescription("Delete a contact"),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("Contact ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete-contact", "contacts", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteContact(ctx, request, sc)
		}))

	return nil
}

func clientForRequest(request mcp.CallToolRequest, sc *server.ServerContext) (*contacts.Client, *mcp.CallToolResult) {
	account, err := common.ResolveAccount(sc, request.GetArguments())
	if err != nil {
		return nil, common.FailErr(err)
	}
	return sc.ContactsClientForAccount(account), nil
}

func handleListContacts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	search := ""
	if s, ok := args["search"].(string); ok {
		search = s
	}
	count := 0
	if c, ok := args["count"].(float64); ok {
		count = int(c)
	}

	list, _, err := client.ListContacts(ctx, search, count)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(list, "get-contact"), nil
}

func handleGetContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, ok := args["contactId"].(string)
	if !ok || id == "" {
		return common.Fail("'contactId' field is required"), nil
	}
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	ct, err := client.GetContact(ctx, id)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(ct, "update-contact"), nil
}

func handleCreateContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("create-contact"), nil
	}
	args := request.GetArguments()

	givenName, ok := args["givenName"].(string)
	if !ok || givenName == "" {
		return common.Fail("'givenName' field is required"), nil
	}

	draft := contacts.Draft{GivenName: givenName}
	if s, ok := args["surname"].(string); ok {
		draft.Surname = s
	}
	if e, ok := args["email"].(string); ok {
		draft.Email = e
	}
	if p, ok := args["businessPhones"].(string); ok && p != "" {
		for _, phone := range strings.Split(p, ",") {
			if trimmed := strings.TrimSpace(phone); trimmed != "" {
				draft.BusinessPhones = append(draft.BusinessPhones, trimmed)
			}
		}
	}
	if c, ok := args["companyName"].(string); ok {
		draft.CompanyName = c
	}
	if j, ok := args["jobTitle"].(string); ok {
		draft.JobTitle = j
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	created, err := client.CreateContact(ctx, draft)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(created, "list-contacts"), nil
}

func handleUpdateContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("update-contact"), nil
	}
	args := request.GetArguments()

	id, ok := args["contactId"].(string)
	if !ok || id == "" {
		return common.Fail("'contactId' field is required"), nil
	}

	patch := map[string]any{}
	for arg, field := range map[string]string{
		"givenName":   "givenName",
		"surname":     "surname",
		"companyName": "companyName",
		"jobTitle":    "jobTitle",
	} {
		if v, ok := args[arg].(string); ok && v != "" {
			patch[field] = v
		}
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	updated, err := client.UpdateContact(ctx, id, patch)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(updated, "get-contact"), nil
}

func handleDeleteContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("delete-contact"), nil
	}
	args := request.GetArguments()

	id, ok := args["contactId"].(string)
	if !ok || id == "" {
		return common.Fail("'contactId' field is required"), nil
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.DeleteContact(ctx, id); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Contact deleted", "list-contacts"), nil
}
