package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/RyanLisse/flok/internal/graph"
)

const defaultListCount = 25

var listSelect = []string{
	"id", "subject", "from", "receivedDateTime", "isRead", "bodyPreview", "hasAttachments",
}

// Client wraps the Graph client with mail-specific paths and decoding.
type Client struct {
	graph *graph.Client
}

// NewClient creates a mail client over the Graph transport.
func NewClient(g *graph.Client) *Client {
	return &Client{graph: g}
}

// ListOptions shapes ListMessages.
type ListOptions struct {
	Folder      string // defaults to "inbox"
	UnreadOnly  bool
	Count       int // defaults to 25
	Skip        int
	IncludeBody bool
}

// ListMessages lists messages in a folder, newest first. The returned
// nextLink, when non-empty, continues the listing and must be passed to
// ListPage verbatim.
func (c *Client) ListMessages(ctx context.Context, opts ListOptions) ([]Message, string, error) {
	folder := opts.Folder
	if folder == "" {
		folder = "inbox"
	}
	count := opts.Count
	if count <= 0 {
		count = defaultListCount
	}

	q := graph.NewQuery().
		Select(listSelect...).
		OrderBy("receivedDateTime", true).
		Top(count)
	if opts.Skip > 0 {
		q.Skip(opts.Skip)
	}
	if opts.UnreadOnly {
		q.Filter("isRead eq false")
	}
	if opts.IncludeBody {
		q.Select("body")
	}

	data, err := c.graph.Get(ctx, "/me/mailFolders/"+url.PathEscape(folder)+"/messages", q.Values())
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Message](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// ListPage fetches a continuation page from a nextLink returned by
// ListMessages.
func (c *Client) ListPage(ctx context.Context, nextLink string) ([]Message, string, error) {
	data, err := c.graph.Get(ctx, nextLink, nil)
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Message](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// ListAllMessages drains up to maxPages of a folder listing.
func (c *Client) ListAllMessages(ctx context.Context, folder string, maxPages int) ([]Message, error) {
	if folder == "" {
		folder = "inbox"
	}
	q := graph.NewQuery().
		Select(listSelect...).
		OrderBy("receivedDateTime", true)
	return graph.CollectPaginated[Message](ctx, c.graph,
		"/me/mailFolders/"+url.PathEscape(folder)+"/messages", q.Values(), maxPages)
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, id string, includeBody bool) (*Message, error) {
	q := graph.NewQuery().Select(
		"id", "subject", "from", "toRecipients", "ccRecipients",
		"receivedDateTime", "isRead", "hasAttachments", "conversationId")
	if includeBody {
		q.Select("body")
	}
	data, err := c.graph.Get(ctx, "/me/messages/"+url.PathEscape(id), q.Values())
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &msg, nil
}

// SearchMessages searches across all folders using the Graph search API.
func (c *Client) SearchMessages(ctx context.Context, query string, count int) ([]Message, error) {
	if count <= 0 {
		count = defaultListCount
	}
	q := graph.NewQuery().
		Search(query).
		Top(count).
		Select("id", "subject", "from", "receivedDateTime", "bodyPreview")
	data, err := c.graph.Get(ctx, "/me/messages", q.Values())
	if err != nil {
		return nil, err
	}
	page, err := graph.DecodePage[Message](data)
	if err != nil {
		return nil, err
	}
	return page.Value, nil
}

// ListFolders lists the account's mail folders.
func (c *Client) ListFolders(ctx context.Context) ([]MailFolder, error) {
	q := graph.NewQuery().Select("id", "displayName", "totalItemCount", "unreadItemCount")
	data, err := c.graph.Get(ctx, "/me/mailFolders", q.Values())
	if err != nil {
		return nil, err
	}
	page, err := graph.DecodePage[MailFolder](data)
	if err != nil {
		return nil, err
	}
	return page.Value, nil
}

// Send sends a message via /me/sendMail.
func (c *Client) Send(ctx context.Context, req SendMailRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = c.graph.Post(ctx, "/me/sendMail", body)
	return err
}

// Reply replies to a message; replyAll includes all original recipients.
func (c *Client) Reply(ctx context.Context, id, comment string, replyAll bool) error {
	body, err := json.Marshal(map[string]string{"comment": comment})
	if err != nil {
		return err
	}
	action := "/reply"
	if replyAll {
		action = "/replyAll"
	}
	_, err = c.graph.Post(ctx, "/me/messages/"+url.PathEscape(id)+action, body)
	return err
}

// Move moves a message to another folder and returns the moved copy.
func (c *Client) Move(ctx context.Context, id, destinationFolder string) (*Message, error) {
	body, err := json.Marshal(map[string]string{"destinationId": destinationFolder})
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Post(ctx, "/me/messages/"+url.PathEscape(id)+"/move", body)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode moved message: %w", err)
	}
	return &msg, nil
}

// Delete deletes a message.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.graph.Delete(ctx, "/me/messages/"+url.PathEscape(id))
}
