package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/mail"
	"github.com/RyanLisse/flok/internal/server"
)

// RegisterResources registers the context-injection resources: an inbox
// summary and today's calendar. Agents read these up front instead of
// issuing tool calls for routine context.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	inboxResource := mcp.NewResource(
		"flok://inbox/summary",
		"Inbox Summary",
		mcp.WithResourceDescription("Unread counts and the most recent unread messages"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(inboxResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleInboxSummary(ctx, request, sc)
	})

	todayResource := mcp.NewResource(
		"flok://calendar/today",
		"Today's Calendar",
		mcp.WithResourceDescription("Events on today's calendar, recurring events expanded"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(todayResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendarToday(ctx, request, sc)
	})

	return nil
}

// inboxSummary is the payload of flok://inbox/summary.
type inboxSummary struct {
	Account     string         `json:"account"`
	UnreadCount int            `json:"unreadCount"`
	TotalCount  int            `json:"totalCount"`
	Recent      []mail.Message `json:"recentUnread"`
}

func handleInboxSummary(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account, err := sc.ResolveAccount("")
	if err != nil {
		return nil, fmt.Errorf("resolving account: %w", err)
	}
	client := sc.MailClientForAccount(account)

	folders, err := client.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	summary := inboxSummary{Account: account}
	for _, f := range folders {
		if f.DisplayName == "Inbox" {
			summary.UnreadCount = f.UnreadItemCount
			summary.TotalCount = f.TotalItemCount
			break
		}
	}

	recent, _, err := client.ListMessages(ctx, mail.ListOptions{UnreadOnly: true, Count: 10})
	if err != nil {
		return nil, err
	}
	summary.Recent = recent

	return jsonContents(request.Params.URI, summary)
}

func handleCalendarToday(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account, err := sc.ResolveAccount("")
	if err != nil {
		return nil, fmt.Errorf("resolving account: %w", err)
	}
	client := sc.CalendarClientForAccount(account)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, _, err := client.ListEvents(ctx, calendar.ListOptions{
		Start: startOfDay,
		End:   startOfDay.Add(24 * time.Hour),
	})
	if err != nil {
		return nil, err
	}

	return jsonContents(request.Params.URI, events)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
