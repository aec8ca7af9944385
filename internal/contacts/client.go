package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/RyanLisse/flok/internal/graph"
)

const defaultListCount = 50

var contactSelect = []string{
	"id", "displayName", "givenName", "surname", "emailAddresses",
	"businessPhones", "mobilePhone", "companyName", "jobTitle",
}

// Client wraps the Graph client with contact-specific paths and decoding.
type Client struct {
	graph *graph.Client
}

// NewClient creates a contacts client over the Graph transport.
func NewClient(g *graph.Client) *Client {
	return &Client{graph: g}
}

// ListContacts lists contacts, optionally narrowed by a $search term that
// matches names and email addresses.
func (c *Client) ListContacts(ctx context.Context, search string, count int) ([]Contact, string, error) {
	if count <= 0 {
		count = defaultListCount
	}
	q := graph.NewQuery().
		Select(contactSelect...).
		Top(count)
	if search != "" {
		q.Search(search)
	}
	data, err := c.graph.Get(ctx, "/me/contacts", q.Values())
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Contact](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// GetContact fetches a single contact by id.
func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	data, err := c.graph.Get(ctx, "/me/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var ct Contact
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decoding contact: %w", err)
	}
	return &ct, nil
}

// CreateContact creates a contact and returns it as stored by the service.
func (c *Client) CreateContact(ctx context.Context, draft Draft) (*Contact, error) {
	body := map[string]any{"givenName": draft.GivenName}
	if draft.Surname != "" {
		body["surname"] = draft.Surname
	}
	if draft.Email != "" {
		body["emailAddresses"] = []map[string]string{{"address": draft.Email}}
	}
	if len(draft.BusinessPhones) > 0 {
		body["businessPhones"] = draft.BusinessPhones
	}
	if draft.CompanyName != "" {
		body["companyName"] = draft.CompanyName
	}
	if draft.JobTitle != "" {
		body["jobTitle"] = draft.JobTitle
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Post(ctx, "/me/contacts", payload)
	if err != nil {
		return nil, err
	}
	var ct Contact
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decoding created contact: %w", err)
	}
	return &ct, nil
}

// UpdateContact applies a partial update. An empty patch is a no-op that
// returns the current contact.
func (c *Client) UpdateContact(ctx context.Context, id string, patch map[string]any) (*Contact, error) {
	if len(patch) == 0 {
		return c.GetContact(ctx, id)
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	data, err := c.graph.Patch(ctx, "/me/contacts/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}
	var ct Contact
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decoding updated contact: %w", err)
	}
	return &ct, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.graph.Delete(ctx, "/me/contacts/"+url.PathEscape(id))
}
