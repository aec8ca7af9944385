package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Workflow templates agents compose instead of needing new code. Each is
// registered as an MCP prompt returning a single user message.
const (
	triageInbox = `Review unread messages in the inbox. For each message:
1. Categorize: urgent / needs-reply / informational / spam
2. Summarize in one sentence
3. Suggest action: reply, archive, flag, or delete

Use list-mail with unreadOnly first, then read-mail for important ones.`

	scheduleMeeting = `Schedule a meeting:
1. Use check-availability to find free slots for all attendees
2. Suggest 3 optimal times based on availability
3. After user picks a time, use create-event with all attendees

Ask for: attendees (emails), duration, preferred date range, subject.`

	draftAndReview = `Help compose an email:
1. Ask for recipient, subject, and key points
2. Draft the email body
3. Show draft for review
4. After approval, use send-mail to send

Use a professional but friendly tone unless instructed otherwise.`

	dailyBriefing = `Create a daily briefing:
1. Read the flok://calendar/today resource for today's schedule
2. Use list-mail with unreadOnly for messages needing attention
3. Summarize:
   - Today's schedule (times + subjects)
   - Urgent/flagged emails needing attention
   - Quick stats (meetings count, unread count)`

	contactLookup = `Find contact information:
1. Use list-contacts with search to find the person
2. Display: name, email, phone, company, title
3. Offer to send-mail to them`
)

// RegisterPrompts registers the workflow prompt templates with the MCP
// server.
func RegisterPrompts(s *mcpserver.MCPServer) error {
	register := func(name, description, text string) {
		prompt := mcp.NewPrompt(name,
			mcp.WithPromptDescription(description),
		)
		s.AddPrompt(prompt, func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			}), nil
		})
	}

	register("triage-inbox", "Categorize and prioritize unread messages", triageInbox)
	register("schedule-meeting", "Find availability and create a meeting", scheduleMeeting)
	register("draft-and-review", "Compose an email with a review step", draftAndReview)
	register("daily-briefing", "Summarize today's schedule and urgent mail", dailyBriefing)
	register("contact-lookup", "Find and display contact information", contactLookup)

	return nil
}
