package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/RyanLisse/flok/internal/graph"
)

const defaultListCount = 25

var eventSelect = []string{
	"id", "subject", "start", "end", "location", "organizer", "attendees",
	"isAllDay", "isCancelled", "isOnlineMeeting", "responseStatus", "showAs", "webLink",
}

// Client wraps the Graph client with calendar-specific paths and decoding.
type Client struct {
	graph *graph.Client
}

// NewClient creates a calendar client over the Graph transport.
func NewClient(g *graph.Client) *Client {
	return &Client{graph: g}
}

// ListOptions shapes ListEvents.
type ListOptions struct {
	Start time.Time // defaults to now
	End   time.Time // defaults to Start + 7 days
	Count int       // defaults to 25
}

// ListEvents lists events in a window using the calendar view, expanded
// occurrences included, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, opts ListOptions) ([]Event, string, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	end := opts.End
	if end.IsZero() {
		end = start.Add(7 * 24 * time.Hour)
	}
	count := opts.Count
	if count <= 0 {
		count = defaultListCount
	}

	q := graph.NewQuery().
		Select(eventSelect...).
		OrderBy("start/dateTime", false).
		Top(count).
		Param("startDateTime", start.UTC().Format(time.RFC3339)).
		Param("endDateTime", end.UTC().Format(time.RFC3339))

	data, err := c.graph.Get(ctx, "/me/calendarView", q.Values())
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Event](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// ListPage fetches a continuation page from a nextLink returned by ListEvents.
func (c *Client) ListPage(ctx context.Context, nextLink string) ([]Event, string, error) {
	data, err := c.graph.Get(ctx, nextLink, nil)
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Event](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	data, err := c.graph.Get(ctx, "/me/events/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return &ev, nil
}

// CreateEvent creates an event on the default calendar and returns it as
// stored by the service.
func (c *Client) CreateEvent(ctx context.Context, draft Draft) (*Event, error) {
	ev := Event{
		Subject: draft.Subject,
		Start:   &DateTimeZone{DateTime: draft.Start.DateTime, TimeZone: draft.Start.TimeZone},
		End:     &DateTimeZone{DateTime: draft.End.DateTime, TimeZone: draft.End.TimeZone},
	}
	if draft.IsAllDay {
		allDay := true
		ev.IsAllDay = &allDay
	}
	if draft.Location != "" {
		ev.Location = &Location{DisplayName: draft.Location}
	}
	if draft.Body != "" {
		ev.Body = &ItemBody{ContentType: "text", Content: draft.Body}
	}
	for _, addr := range draft.Attendees {
		ev.Attendees = append(ev.Attendees, Attendee{
			EmailAddress: EmailAddress{Address: addr},
			Type:         "required",
		})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Post(ctx, "/me/events", body)
	if err != nil {
		return nil, err
	}
	var created Event
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decoding created event: %w", err)
	}
	return &created, nil
}

// Respond accepts, declines, or tentatively accepts an invitation. Action
// must be one of "accept", "decline", or "tentativelyAccept".
func (c *Client) Respond(ctx context.Context, id, action, comment string) error {
	switch action {
	case "accept", "decline", "tentativelyAccept":
	default:
		return fmt.Errorf("unknown response action %q", action)
	}
	payload := map[string]any{"sendResponse": true}
	if comment != "" {
		payload["comment"] = comment
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = c.graph.Post(ctx, "/me/events/"+url.PathEscape(id)+"/"+action, body)
	return err
}

// UpdateEvent applies a partial update to an event. The patch map uses the
// service's field names.
func (c *Client) UpdateEvent(ctx context.Context, id string, patch map[string]any) (*Event, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Patch(ctx, "/me/events/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding updated event: %w", err)
	}
	return &ev, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.graph.Delete(ctx, "/me/events/"+url.PathEscape(id))
}

// CheckAvailability queries free/busy information for a set of addresses
// over a window. Interval is the availability slot size in minutes and
// defaults to 30.
func (c *Client) CheckAvailability(ctx context.Context, addresses []string, start, end time.Time, interval int) ([]ScheduleInformation, error) {
	if interval <= 0 {
		interval = 30
	}
	req := ScheduleRequest{
		Schedules:                addresses,
		StartTime:                DateTimeZone{DateTime: start.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		EndTime:                  DateTimeZone{DateTime: end.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		AvailabilityViewInterval: interval,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Post(ctx, "/me/calendar/getSchedule", body)
	if err != nil {
		return nil, err
	}
	var page struct {
		Value []ScheduleInformation `json:"value"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decoding schedule response: %w", err)
	}
	return page.Value, nil
}
