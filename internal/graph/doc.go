// Package graph provides the authenticated HTTP transport for the
// Microsoft Graph API.
//
// The client attaches bearer tokens resolved through a TokenProvider
// (normally the auth package's token manager), classifies responses into a
// typed error taxonomy, retries transient failures within a bounded budget,
// and follows @odata.nextLink pagination lazily.
//
// Retry policy:
//   - 429: sleep for Retry-After (default 5s, capped at 60s)
//   - 5xx and network errors: exponential backoff, 2^attempt seconds
//   - at most three requests are issued per logical call
//
// Non-transient failures (401, 403, 404, other 4xx) are surfaced
// immediately as *Error values carrying enough detail for a one-line
// actionable message.
//
// # Example Usage
//
//	client := graph.NewClient(manager.Source("default"))
//
//	q := graph.NewQuery().Select("id", "subject").Top(25)
//	data, err := client.Get(ctx, "/me/messages", q.Values())
//
//	for msg, err := range graph.Paginate[Message](ctx, client, "/me/messages", q.Values(), 10) {
//	    ...
//	}
package graph
