package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/RyanLisse/flok/internal/graph"
)

const defaultListCount = 50

var itemSelect = []string{
	"id", "name", "size", "webUrl", "folder", "file",
	"lastModifiedDateTime", "createdDateTime",
}

// Client wraps the Graph client with OneDrive paths and decoding.
type Client struct {
	graph *graph.Client
}

// NewClient creates a drive client over the Graph transport.
func NewClient(g *graph.Client) *Client {
	return &Client{graph: g}
}

// ListChildren lists the children of a folder. Path is relative to the
// drive root; empty lists the root itself.
func (c *Client) ListChildren(ctx context.Context, path string, count int) ([]Item, string, error) {
	if count <= 0 {
		count = defaultListCount
	}
	endpoint := "/me/drive/root/children"
	if path != "" {
		endpoint = "/me/drive/root:/" + escapePath(path) + ":/children"
	}
	q := graph.NewQuery().
		Select(itemSelect...).
		Top(count)
	data, err := c.graph.Get(ctx, endpoint, q.Values())
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Item](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// GetItem fetches a single item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	data, err := c.graph.Get(ctx, "/me/drive/items/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decoding drive item: %w", err)
	}
	return &it, nil
}

// SearchItems searches the whole drive for items matching the query text.
func (c *Client) SearchItems(ctx context.Context, query string, count int) ([]Item, string, error) {
	if count <= 0 {
		count = defaultListCount
	}
	escaped := url.PathEscape(strings.ReplaceAll(query, "'", "''"))
	endpoint := "/me/drive/root/search(q='" + escaped + "')"
	q := graph.NewQuery().Top(count)
	data, err := c.graph.Get(ctx, endpoint, q.Values())
	if err != nil {
		return nil, "", err
	}
	page, err := graph.DecodePage[Item](data)
	if err != nil {
		return nil, "", err
	}
	return page.Value, page.NextLink, nil
}

// escapePath percent-escapes each segment of a drive path while keeping
// the separators.
func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
