package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/contacts"
	"github.com/RyanLisse/flok/internal/drive"
	"github.com/RyanLisse/flok/internal/mail"
)

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", Table, false},
		{"json", JSON, false},
		{"compact", Compact, false},
		{"", Table, false},
		{"yaml", "", true},
	} {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func boolp(b bool) *bool { return &b }

func sampleMessages() []mail.Message {
	at := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	return []mail.Message{
		{
			ID:               "AAMkAGI2TG93AAA=",
			Subject:          "Quarterly review",
			From:             &mail.Recipient{EmailAddress: mail.EmailAddress{Address: "boss@example.com"}},
			ReceivedDateTime: &at,
			IsRead:           boolp(false),
		},
		{
			ID:     "AAMkAGI2TG94AAA=",
			IsRead: boolp(true),
		},
	}
}

func TestMessagesTable(t *testing.T) {
	out := New(Table).Messages(sampleMessages())
	if !strings.Contains(out, "SUBJECT") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "Quarterly review") {
		t.Errorf("missing subject in %q", out)
	}
	if !strings.Contains(out, "(no subject)") {
		t.Errorf("missing empty-subject placeholder in %q", out)
	}
	if !strings.Contains(out, "*") {
		t.Errorf("missing unread marker in %q", out)
	}
}

func TestMessagesJSON(t *testing.T) {
	out := New(JSON).Messages(sampleMessages())
	var decoded []mail.Message
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Subject != "Quarterly review" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestMessagesCompact(t *testing.T) {
	out := New(Compact).Messages(sampleMessages())
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want one per message", len(lines))
	}
	if !strings.Contains(lines[0], "boss@example.com") {
		t.Errorf("line = %q", lines[0])
	}
}

func TestMessagesEmpty(t *testing.T) {
	if out := New(Table).Messages(nil); out != "No messages found." {
		t.Errorf("out = %q", out)
	}
}

func TestMessageDetailIncludesBody(t *testing.T) {
	m := sampleMessages()[0]
	m.Body = &mail.MessageBody{ContentType: "text", Content: "See attached numbers."}
	out := New(Table).Message(&m)
	if !strings.Contains(out, "See attached numbers.") {
		t.Errorf("body missing from %q", out)
	}
	if !strings.Contains(out, m.ID) {
		t.Errorf("full id missing from %q", out)
	}
}

func TestEventsTable(t *testing.T) {
	events := []calendar.Event{
		{
			ID:       "event-1",
			Subject:  "Standup",
			Start:    &calendar.DateTimeZone{DateTime: "2026-09-01T09:00:00.0000000", TimeZone: "UTC"},
			Location: &calendar.Location{DisplayName: "Room 4"},
		},
	}
	out := New(Table).Events(events)
	if !strings.Contains(out, "Standup") || !strings.Contains(out, "Room 4") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "Sep 1 09:00") {
		t.Errorf("start not reformatted in %q", out)
	}
}

func TestContactsTableFallbackName(t *testing.T) {
	cts := []contacts.Contact{
		{ID: "c1", GivenName: "Ada", Surname: "Lovelace",
			EmailAddresses: []contacts.EmailAddress{{Address: "ada@example.com"}}},
	}
	out := New(Table).Contacts(cts)
	if !strings.Contains(out, "Ada Lovelace") {
		t.Errorf("name not assembled from parts in %q", out)
	}
	if !strings.Contains(out, "ada@example.com") {
		t.Errorf("out = %q", out)
	}
}

func TestItemDetail(t *testing.T) {
	size := int64(5 * 1024 * 1024)
	it := &drive.Item{
		ID:     "item-1",
		Name:   "report.pdf",
		Size:   &size,
		File:   &drive.FileFacet{MimeType: "application/pdf"},
		WebURL: "https://example.sharepoint.com/report.pdf",
	}
	out := New(Table).Item(it)
	for _, want := range []string{"report.pdf", "file", "application/pdf", "5.0 MB", "item-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestItemDetailFolder(t *testing.T) {
	count := 7
	it := &drive.Item{ID: "f1", Name: "Projects", Folder: &drive.FolderFacet{ChildCount: &count}}
	out := New(Table).Item(it)
	if !strings.Contains(out, "folder") || !strings.Contains(out, "7") {
		t.Errorf("out = %q", out)
	}
	if strings.Contains(out, "Size") {
		t.Errorf("folders should not report a size: %q", out)
	}
}

func TestItemsTableKinds(t *testing.T) {
	size := int64(512)
	items := []drive.Item{
		{ID: "f1", Name: "Docs", Folder: &drive.FolderFacet{}},
		{ID: "i1", Name: "notes.txt", Size: &size, File: &drive.FileFacet{}},
	}
	out := New(Table).Items(items)
	if !strings.Contains(out, "dir") || !strings.Contains(out, "512 B") {
		t.Errorf("out = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	for _, tt := range []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is t…"},
	} {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestHumanSize(t *testing.T) {
	for _, tt := range []struct {
		in   int64
		want string
	}{
		{42, "42 B"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{2 * 1024 * 1024 * 1024, "2.0 GB"},
	} {
		if got := humanSize(tt.in); got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("AAMkAGI2TG93AAA="); got != "TG93AAA=" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("tiny"); got != "tiny" {
		t.Errorf("shortID = %q", got)
	}
}
