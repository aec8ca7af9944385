package graph

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds OData query parameters for Graph API requests.
//
// Example:
//
//	q := graph.NewQuery().
//	    Select("id", "subject", "from").
//	    Filter("isRead eq false").
//	    OrderBy("receivedDateTime", true).
//	    Top(25)
//	data, err := client.Get(ctx, "/me/messages", q.Values())
type Query struct {
	params url.Values
}

// NewQuery creates an empty OData query builder.
func NewQuery() *Query {
	return &Query{params: url.Values{}}
}

// Select adds fields to the $select list. Multiple calls append.
func (q *Query) Select(fields ...string) *Query {
	existing := q.params.Get("$select")
	all := fields
	if existing != "" {
		all = append(strings.Split(existing, ","), fields...)
	}
	q.params.Set("$select", strings.Join(all, ","))
	return q
}

// Filter sets the $filter expression, e.g. "isRead eq false".
func (q *Query) Filter(expression string) *Query {
	q.params.Set("$filter", expression)
	return q
}

// OrderBy appends an $orderby clause. Multiple calls produce a
// comma-separated ordering.
func (q *Query) OrderBy(field string, descending bool) *Query {
	clause := field
	if descending {
		clause = field + " desc"
	}
	if existing := q.params.Get("$orderby"); existing != "" {
		clause = existing + "," + clause
	}
	q.params.Set("$orderby", clause)
	return q
}

// Top sets the $top page size.
func (q *Query) Top(count int) *Query {
	q.params.Set("$top", strconv.Itoa(count))
	return q
}

// Skip sets the $skip offset.
func (q *Query) Skip(count int) *Query {
	q.params.Set("$skip", strconv.Itoa(count))
	return q
}

// Search sets the $search term. Graph requires the term to be quoted.
func (q *Query) Search(term string) *Query {
	q.params.Set("$search", `"`+term+`"`)
	return q
}

// Expand sets the $expand navigation property.
func (q *Query) Expand(field string) *Query {
	q.params.Set("$expand", field)
	return q
}

// Count requests an inline count of matching results.
func (q *Query) Count(include bool) *Query {
	q.params.Set("$count", strconv.FormatBool(include))
	return q
}

// Param sets an arbitrary query parameter, for endpoints that take
// non-OData parameters like calendarView's startDateTime.
func (q *Query) Param(key, value string) *Query {
	q.params.Set(key, value)
	return q
}

// Values returns the accumulated parameters.
func (q *Query) Values() url.Values {
	return q.params
}
