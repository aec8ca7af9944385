package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/RyanLisse/flok/internal/graph"
)

type fakeTokens struct{}

func (fakeTokens) AccessToken(ctx context.Context) (string, error) { return "test-token", nil }

type recorded struct {
	method string
	path   string
	query  url.Values
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.query = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	g := graph.NewClient(fakeTokens{}, graph.WithBaseURL(srv.URL), graph.WithHTTPClient(srv.Client()))
	return NewClient(g), rec
}

func TestListChildrenRoot(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK,
		`{"value":[{"id":"i1","name":"Documents","folder":{"childCount":3}}]}`)

	items, _, err := c.ListChildren(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Documents" {
		t.Errorf("items = %+v", items)
	}
	if !items[0].IsFolder() {
		t.Error("folder facet lost in decoding")
	}
	if rec.path != "/me/drive/root/children" {
		t.Errorf("path = %q", rec.path)
	}
	if got := rec.query.Get("$top"); got != "50" {
		t.Errorf("$top = %q, want the 50 default", got)
	}
}

func TestListChildrenEscapesPath(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"value":[]}`)

	if _, _, err := c.ListChildren(context.Background(), "Docs/Q3 Report", 5); err != nil {
		t.Fatal(err)
	}
	if want := "/me/drive/root:/Docs/Q3%20Report:/children"; rec.path != want {
		t.Errorf("path = %q, want %q", rec.path, want)
	}
	if got := rec.query.Get("$top"); got != "5" {
		t.Errorf("$top = %q", got)
	}
}

func TestGetItem(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK,
		`{"id":"i1","name":"report.docx","file":{"mimeType":"application/msword"},"size":2048}`)

	it, err := c.GetItem(context.Background(), "i1")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/me/drive/items/i1" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
	if it.IsFolder() {
		t.Error("file reported as folder")
	}
	if it.Size == nil || *it.Size != 2048 {
		t.Errorf("size = %v", it.Size)
	}
}

func TestSearchItemsEscapesQuotes(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"value":[{"id":"i1","name":"q3.xlsx"}]}`)

	items, _, err := c.SearchItems(context.Background(), "bob's report", 0)
	if err != nil {
		t.Fatalf("SearchItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %+v", items)
	}
	if want := "/me/drive/root/search(q='bob''s%20report')"; rec.path != want {
		t.Errorf("path = %q, want %q", rec.path, want)
	}
}
