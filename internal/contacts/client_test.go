package contacts

import (
	"context"
	"encoding/json"
	"io"
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
	body   []byte
	count  int
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.body, _ = io.ReadAll(r.Body)
		rec.count++
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	g := graph.NewClient(fakeTokens{}, graph.WithBaseURL(srv.URL), graph.WithHTTPClient(srv.Client()))
	return NewClient(g), rec
}

func TestListContacts(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK,
		`{"value":[{"id":"c1","displayName":"Ada Lovelace","emailAddresses":[{"address":"ada@example.com"}]}]}`)

	cts, _, err := c.ListContacts(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(cts) != 1 || cts[0].DisplayName != "Ada Lovelace" {
		t.Errorf("contacts = %+v", cts)
	}
	if rec.path != "/me/contacts" {
		t.Errorf("path = %q", rec.path)
	}
	if got := rec.query.Get("$top"); got != "50" {
		t.Errorf("$top = %q, want the 50 default", got)
	}
	if rec.query.Has("$search") {
		t.Error("unexpected $search without a term")
	}
}

func TestListContactsSearch(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"value":[]}`)

	if _, _, err := c.ListContacts(context.Background(), "lovelace", 10); err != nil {
		t.Fatal(err)
	}
	if got := rec.query.Get("$search"); got != `"lovelace"` {
		t.Errorf("$search = %q", got)
	}
	if got := rec.query.Get("$top"); got != "10" {
		t.Errorf("$top = %q", got)
	}
}

func TestCreateContactOmitsEmptyFields(t *testing.T) {
	c, rec := newTestClient(t, http.StatusCreated, `{"id":"c-new","givenName":"Ada"}`)

	ct, err := c.CreateContact(context.Background(), Draft{GivenName: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateContact() error = %v", err)
	}
	if ct.ID != "c-new" {
		t.Errorf("created id = %q", ct.ID)
	}
	if rec.method != http.MethodPost || rec.path != "/me/contacts" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.body, &body); err != nil {
		t.Fatal(err)
	}
	if body["givenName"] != "Ada" {
		t.Errorf("givenName = %v", body["givenName"])
	}
	if _, ok := body["surname"]; ok {
		t.Error("empty surname should be omitted")
	}
	emails, ok := body["emailAddresses"].([]any)
	if !ok || len(emails) != 1 {
		t.Fatalf("emailAddresses = %v", body["emailAddresses"])
	}
	if addr := emails[0].(map[string]any)["address"]; addr != "ada@example.com" {
		t.Errorf("address = %v", addr)
	}
}

func TestUpdateContactPatch(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"id":"c1","jobTitle":"Engineer"}`)

	ct, err := c.UpdateContact(context.Background(), "c1", map[string]any{"jobTitle": "Engineer"})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if ct.JobTitle != "Engineer" {
		t.Errorf("jobTitle = %q", ct.JobTitle)
	}
	if rec.method != http.MethodPatch || rec.path != "/me/contacts/c1" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
}

func TestUpdateContactEmptyPatchFetches(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"id":"c1","displayName":"Ada"}`)

	ct, err := c.UpdateContact(context.Background(), "c1", nil)
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if ct.DisplayName != "Ada" {
		t.Errorf("contact = %+v", ct)
	}
	if rec.method != http.MethodGet {
		t.Errorf("method = %s, want GET for an empty patch", rec.method)
	}
}

func TestDeleteContact(t *testing.T) {
	c, rec := newTestClient(t, http.StatusNoContent, "")

	if err := c.DeleteContact(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteContact() error = %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/me/contacts/c1" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
}
