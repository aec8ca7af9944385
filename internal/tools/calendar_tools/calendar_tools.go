package calendar_tools

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// RegisterCalendarTools registers calendar tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list-events",
		mcp.WithDescription("List calendar events within a date range, recurring events expanded"),
		mcp.WithString("start",
			mcp.Description("Window start as RFC 3339 (default: now)"),
		),
		mcp.WithString("end",
			mcp.Description("Window end as RFC 3339 (default: start + 7 days)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of events to return (default: 25)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list-events", "calendar", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	getTool := mcp.NewTool("get-event",
		mcp.WithDescription("Get full event details by ID"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("Event ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("get-event", "calendar", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	createTool := mcp.NewTool("create-event",
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Event subject"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time, local wall clock (e.g. 2026-09-02T14:00:00)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time, local wall clock"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for start and end (default: UTC)"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee email address(es), comma-separated"),
		),
		mcp.WithString("body",
			mcp.Description("Event description"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("create-event", "calendar", instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	respondTool := mcp.NewTool("respond-event",
		mcp.WithDescription("Accept, decline, or tentatively accept an event invitation"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("Event ID"),
		),
		mcp.WithString("response",
			mcp.Required(),
			mcp.Description("One of: accept, decline, tentativelyAccept"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment sent with the response"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(respondTool, common.InstrumentedToolHandler("respond-event", "calendar", instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRespondEvent(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete-event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("Event ID"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete-event", "calendar", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	availabilityTool := mcp.NewTool("check-availability",
		mcp.WithDescription("Check free/busy schedules for one or more people"),
		mcp.WithString("addresses",
			mcp.Required(),
			mcp.Description("Email address(es) to check, comma-separated"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Window start as RFC 3339"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Window end as RFC 3339"),
		),
		mcp.WithNumber("interval",
			mcp.Description("Slot size in minutes (default: 30)"),
		),
		mcp.WithString("account",
			mcp.Description("Account name"),
		),
	)
	s.AddTool(availabilityTool, common.InstrumentedToolHandler("check-availability", "calendar", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	return nil
}

func clientForRequest(request mcp.CallToolRequest, sc *server.ServerContext) (*calendar.Client, *mcp.CallToolResult) {
	account, err := common.ResolveAccount(sc, request.GetArguments())
	if err != nil {
		return nil, common.FailErr(err)
	}
	return sc.CalendarClientForAccount(account), nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	opts := calendar.ListOptions{}
	if start, ok := args["start"].(string); ok && start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return common.Fail("invalid 'start': " + err.Error()), nil
		}
		opts.Start = t
	}
	if end, ok := args["end"].(string); ok && end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return common.Fail("invalid 'end': " + err.Error()), nil
		}
		opts.End = t
	}
	if count, ok := args["count"].(float64); ok {
		opts.Count = int(count)
	}

	events, _, err := client.ListEvents(ctx, opts)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(events, "get-event", "respond-event"), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, ok := args["eventId"].(string)
	if !ok || id == "" {
		return common.Fail("'eventId' field is required"), nil
	}
	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}

	ev, err := client.GetEvent(ctx, id)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(ev, "respond-event", "delete-event"), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("create-event"), nil
	}
	args := request.GetArguments()

	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return common.Fail("'subject' field is required"), nil
	}
	start, ok := args["start"].(string)
	if !ok || start == "" {
		return common.Fail("'start' field is required"), nil
	}
	end, ok := args["end"].(string)
	if !ok || end == "" {
		return common.Fail("'end' field is required"), nil
	}
	timeZone := "UTC"
	if tz, ok := args["timeZone"].(string); ok && tz != "" {
		timeZone = tz
	}

	draft := calendar.Draft{
		Subject: subject,
		Start:   calendar.DateTimeZone{DateTime: start, TimeZone: timeZone},
		End:     calendar.DateTimeZone{DateTime: end, TimeZone: timeZone},
	}
	if loc, ok := args["location"].(string); ok {
		draft.Location = loc
	}
	if body, ok := args["body"].(string); ok {
		draft.Body = body
	}
	if attendees, ok := args["attendees"].(string); ok && attendees != "" {
		for _, a := range strings.Split(attendees, ",") {
			if trimmed := strings.TrimSpace(a); trimmed != "" {
				draft.Attendees = append(draft.Attendees, trimmed)
			}
		}
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	created, err := client.CreateEvent(ctx, draft)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(created, "list-events"), nil
}

func handleRespondEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("respond-event"), nil
	}
	args := request.GetArguments()

	id, ok := args["eventId"].(string)
	if !ok || id == "" {
		return common.Fail("'eventId' field is required"), nil
	}
	response, ok := args["response"].(string)
	if !ok || response == "" {
		return common.Fail("'response' field is required"), nil
	}
	comment := ""
	if c, ok := args["comment"].(string); ok {
		comment = c
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.Respond(ctx, id, response, comment); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Response sent: "+response, "list-events"), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return common.ReadOnlyError("delete-event"), nil
	}
	args := request.GetArguments()

	id, ok := args["eventId"].(string)
	if !ok || id == "" {
		return common.Fail("'eventId' field is required"), nil
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	if err := client.DeleteEvent(ctx, id); err != nil {
		return common.FailErr(err), nil
	}
	return common.Ok("Event deleted", "list-events"), nil
}

func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	addrStr, ok := args["addresses"].(string)
	if !ok || addrStr == "" {
		return common.Fail("'addresses' field is required"), nil
	}
	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return common.Fail("'start' field is required"), nil
	}
	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return common.Fail("'end' field is required"), nil
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return common.Fail("invalid 'start': " + err.Error()), nil
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return common.Fail("invalid 'end': " + err.Error()), nil
	}
	interval := 0
	if i, ok := args["interval"].(float64); ok {
		interval = int(i)
	}

	var addresses []string
	for _, a := range strings.Split(addrStr, ",") {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}

	client, errResult := clientForRequest(request, sc)
	if errResult != nil {
		return errResult, nil
	}
	schedules, err := client.CheckAvailability(ctx, addresses, start, end, interval)
	if err != nil {
		return common.FailErr(err), nil
	}
	return common.OkJSON(schedules, "create-event"), nil
}
