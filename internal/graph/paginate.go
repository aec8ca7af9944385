package graph

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/url"
)

// Page is the Graph list-response envelope. NextLink, when present, is a
// fully-qualified continuation URL and must be requested verbatim.
type Page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// Paginate returns a lazy sequence of decoded items, following
// @odata.nextLink until it is absent or maxPages is reached. Each page
// request goes through the client's normal retry policy. The sequence is
// finite and not restartable; a decoding or transport failure is yielded
// once with a zero item and ends the sequence.
func Paginate[T any](ctx context.Context, c *Client, path string, query url.Values, maxPages int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		target := c.buildURL(path, query)
		for page := 0; target != "" && page < maxPages; page++ {
			data, err := c.do(ctx, http.MethodGet, target, nil, nil)
			if err != nil {
				yield(zero, err)
				return
			}
			var p Page[T]
			if err := json.Unmarshal(data, &p); err != nil {
				yield(zero, &Error{Kind: KindDecodingError, cause: err})
				return
			}
			for _, item := range p.Value {
				if !yield(item, nil) {
					return
				}
			}
			// The nextLink already carries its own query string; it is
			// opaque to this client.
			target = p.NextLink
		}
	}
}

// CollectPaginated drains Paginate into a slice.
func CollectPaginated[T any](ctx context.Context, c *Client, path string, query url.Values, maxPages int) ([]T, error) {
	var items []T
	for item, err := range Paginate[T](ctx, c, path, query, maxPages) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// DecodePage decodes a raw list response into a typed page. Used by domain
// services that need the nextLink alongside the items.
func DecodePage[T any](data []byte) (Page[T], error) {
	var p Page[T]
	if err := json.Unmarshal(data, &p); err != nil {
		return Page[T]{}, &Error{Kind: KindDecodingError, cause: err}
	}
	return p, nil
}
