package graph

import "testing"

func TestQueryBuilder(t *testing.T) {
	q := NewQuery().
		Select("id", "subject").
		Select("from").
		Filter("isRead eq false").
		OrderBy("receivedDateTime", true).
		Top(25).
		Skip(10).
		Count(true)

	v := q.Values()
	if got := v.Get("$select"); got != "id,subject,from" {
		t.Errorf("$select = %q", got)
	}
	if got := v.Get("$filter"); got != "isRead eq false" {
		t.Errorf("$filter = %q", got)
	}
	if got := v.Get("$orderby"); got != "receivedDateTime desc" {
		t.Errorf("$orderby = %q", got)
	}
	if got := v.Get("$top"); got != "25" {
		t.Errorf("$top = %q", got)
	}
	if got := v.Get("$skip"); got != "10" {
		t.Errorf("$skip = %q", got)
	}
	if got := v.Get("$count"); got != "true" {
		t.Errorf("$count = %q", got)
	}
}

func TestQuerySearchIsQuoted(t *testing.T) {
	v := NewQuery().Search("budget report").Values()
	if got := v.Get("$search"); got != `"budget report"` {
		t.Errorf("$search = %q, want quoted term", got)
	}
}

func TestQueryOrderByAppends(t *testing.T) {
	v := NewQuery().OrderBy("start/dateTime", false).OrderBy("subject", true).Values()
	if got := v.Get("$orderby"); got != "start/dateTime,subject desc" {
		t.Errorf("$orderby = %q", got)
	}
}

func TestQueryParam(t *testing.T) {
	v := NewQuery().Param("startDateTime", "2026-01-01T00:00:00Z").Values()
	if got := v.Get("startDateTime"); got != "2026-01-01T00:00:00Z" {
		t.Errorf("startDateTime = %q", got)
	}
}
