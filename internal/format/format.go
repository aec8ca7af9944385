package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/contacts"
	"github.com/RyanLisse/flok/internal/drive"
	"github.com/RyanLisse/flok/internal/mail"
)

// Format selects how CLI output is rendered.
type Format string

const (
	// Table renders aligned human-readable tables with styled headers.
	Table Format = "table"
	// JSON renders indented JSON, suitable for piping into jq.
	JSON Format = "json"
	// Compact renders one line per item with no decoration.
	Compact Format = "compact"
)

// Parse maps a --format flag value to a Format.
func Parse(s string) (Format, error) {
	switch Format(s) {
	case Table, JSON, Compact:
		return Format(s), nil
	case "":
		return Table, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, or compact)", s)
	}
}

// Formatter renders domain objects for terminal output.
type Formatter struct {
	format Format
}

// New creates a formatter for the given format.
func New(f Format) *Formatter {
	return &Formatter{format: f}
}

// Messages renders a message listing.
func (f *Formatter) Messages(msgs []mail.Message) string {
	switch f.format {
	case JSON:
		return toJSON(msgs)
	case Compact:
		lines := make([]string, 0, len(msgs))
		for _, m := range msgs {
			lines = append(lines, messageLine(m))
		}
		return strings.Join(lines, "\n")
	default:
		return messagesTable(msgs)
	}
}

// Message renders a single message with its body when present.
func (f *Formatter) Message(m *mail.Message) string {
	switch f.format {
	case JSON:
		return toJSON(m)
	case Compact:
		return messageLine(*m)
	default:
		return messageDetail(m)
	}
}

// Events renders an event listing.
func (f *Formatter) Events(events []calendar.Event) string {
	switch f.format {
	case JSON:
		return toJSON(events)
	case Compact:
		lines := make([]string, 0, len(events))
		for _, ev := range events {
			lines = append(lines, eventLine(ev))
		}
		return strings.Join(lines, "\n")
	default:
		return eventsTable(events)
	}
}

// Event renders a single event.
func (f *Formatter) Event(ev *calendar.Event) string {
	switch f.format {
	case JSON:
		return toJSON(ev)
	case Compact:
		return eventLine(*ev)
	default:
		return eventDetail(ev)
	}
}

// Contacts renders a contact listing.
func (f *Formatter) Contacts(cts []contacts.Contact) string {
	switch f.format {
	case JSON:
		return toJSON(cts)
	default:
		if len(cts) == 0 {
			return "No contacts found."
		}
		lines := make([]string, 0, len(cts)+1)
		if f.format == Table {
			lines = append(lines, headerStyle.Render(fmt.Sprintf("%-28s %-30s %-20s", "NAME", "EMAIL", "COMPANY")))
		}
		for _, c := range cts {
			email := ""
			if len(c.EmailAddresses) > 0 {
				email = c.EmailAddresses[0].Address
			}
			lines = append(lines, fmt.Sprintf("%-28s %-30s %-20s",
				truncate(contactName(c), 28), truncate(email, 30), truncate(c.CompanyName, 20)))
		}
		return strings.Join(lines, "\n")
	}
}

// Contact renders a single contact.
func (f *Formatter) Contact(c *contacts.Contact) string {
	if f.format == JSON {
		return toJSON(c)
	}
	var b strings.Builder
	field(&b, "Name", contactName(*c))
	for _, e := range c.EmailAddresses {
		field(&b, "Email", e.Address)
	}
	if c.MobilePhone != "" {
		field(&b, "Mobile", c.MobilePhone)
	}
	for _, p := range c.BusinessPhones {
		field(&b, "Phone", p)
	}
	if c.CompanyName != "" {
		field(&b, "Company", c.CompanyName)
	}
	if c.JobTitle != "" {
		field(&b, "Title", c.JobTitle)
	}
	field(&b, "ID", c.ID)
	return strings.TrimRight(b.String(), "\n")
}

// Items renders a drive item listing.
func (f *Formatter) Items(items []drive.Item) string {
	switch f.format {
	case JSON:
		return toJSON(items)
	default:
		if len(items) == 0 {
			return "No items found."
		}
		lines := make([]string, 0, len(items)+1)
		if f.format == Table {
			lines = append(lines, headerStyle.Render(fmt.Sprintf("%-4s %-40s %12s  %s", "TYPE", "NAME", "SIZE", "MODIFIED")))
		}
		for _, it := range items {
			kind := "file"
			if it.IsFolder() {
				kind = "dir"
			}
			size := ""
			if it.Size != nil && !it.IsFolder() {
				size = humanSize(*it.Size)
			}
			mod := ""
			if it.LastModifiedDateTime != nil {
				mod = it.LastModifiedDateTime.Local().Format("2006-01-02 15:04")
			}
			lines = append(lines, fmt.Sprintf("%-4s %-40s %12s  %s", kind, truncate(it.Name, 40), size, dimStyle.Render(mod)))
		}
		return strings.Join(lines, "\n")
	}
}

// Item renders a single drive item.
func (f *Formatter) Item(it *drive.Item) string {
	if f.format == JSON {
		return toJSON(it)
	}
	var b strings.Builder
	field(&b, "Name", it.Name)
	kind := "file"
	if it.IsFolder() {
		kind = "folder"
		if it.Folder.ChildCount != nil {
			field(&b, "Children", fmt.Sprintf("%d", *it.Folder.ChildCount))
		}
	}
	field(&b, "Type", kind)
	if it.File != nil && it.File.MimeType != "" {
		field(&b, "MIME", it.File.MimeType)
	}
	if it.Size != nil && !it.IsFolder() {
		field(&b, "Size", humanSize(*it.Size))
	}
	if it.LastModifiedDateTime != nil {
		field(&b, "Modified", it.LastModifiedDateTime.Local().Format("2006-01-02 15:04"))
	}
	if it.WebURL != "" {
		field(&b, "Link", it.WebURL)
	}
	field(&b, "ID", it.ID)
	return strings.TrimRight(b.String(), "\n")
}

// Folders renders a mail folder listing.
func (f *Formatter) Folders(folders []mail.MailFolder) string {
	if f.format == JSON {
		return toJSON(folders)
	}
	if len(folders) == 0 {
		return "No folders found."
	}
	lines := make([]string, 0, len(folders)+1)
	if f.format == Table {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("%-30s %8s %8s", "FOLDER", "TOTAL", "UNREAD")))
	}
	for _, fl := range folders {
		lines = append(lines, fmt.Sprintf("%-30s %8d %8d", truncate(fl.DisplayName, 30), fl.TotalItemCount, fl.UnreadItemCount))
	}
	return strings.Join(lines, "\n")
}

// Schedules renders free/busy availability.
func (f *Formatter) Schedules(scheds []calendar.ScheduleInformation) string {
	if f.format == JSON {
		return toJSON(scheds)
	}
	lines := make([]string, 0, len(scheds))
	for _, s := range scheds {
		lines = append(lines, labelStyle.Render(s.ScheduleID))
		if len(s.ScheduleItems) == 0 {
			lines = append(lines, "  free")
			continue
		}
		for _, it := range s.ScheduleItems {
			span := ""
			if it.Start != nil && it.End != nil {
				span = it.Start.DateTime + " - " + it.End.DateTime
			}
			lines = append(lines, fmt.Sprintf("  %-10s %s", it.Status, span))
		}
	}
	return strings.Join(lines, "\n")
}

func messagesTable(msgs []mail.Message) string {
	if len(msgs) == 0 {
		return "No messages found."
	}
	lines := make([]string, 0, len(msgs)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-8s %-1s %-28s %-48s %s", "ID", " ", "FROM", "SUBJECT", "DATE")))
	for _, m := range msgs {
		line := fmt.Sprintf("%-8s %-1s %-28s %-48s %s",
			shortID(m.ID), readMarker(m),
			truncate(fromAddress(m), 28), truncate(subject(m), 48),
			dimStyle.Render(receivedAt(m)))
		if m.IsRead != nil && !*m.IsRead {
			line = unreadStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func messageDetail(m *mail.Message) string {
	var b strings.Builder
	field(&b, "Subject", subject(*m))
	field(&b, "From", fromAddress(*m))
	field(&b, "To", joinAddresses(m.ToRecipients))
	if len(m.CcRecipients) > 0 {
		field(&b, "CC", joinAddresses(m.CcRecipients))
	}
	field(&b, "Date", receivedAt(*m))
	if m.IsRead != nil {
		read := "No"
		if *m.IsRead {
			read = "Yes"
		}
		field(&b, "Read", read)
	}
	if m.HasAttachments != nil && *m.HasAttachments {
		field(&b, "Attachments", "Yes")
	}
	field(&b, "ID", m.ID)
	if m.Body != nil && m.Body.Content != "" {
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n")
		b.WriteString(m.Body.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func messageLine(m mail.Message) string {
	return fmt.Sprintf("%s %s | %s | %s",
		readMarker(m), truncate(fromAddress(m), 25), truncate(subject(m), 60), receivedAt(m))
}

func eventsTable(events []calendar.Event) string {
	if len(events) == 0 {
		return "No events found."
	}
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-8s %-18s %-44s %s", "ID", "START", "SUBJECT", "LOCATION")))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%-8s %-18s %-44s %s",
			shortID(ev.ID), eventStart(ev), truncate(ev.Subject, 44), truncate(locationName(ev), 24)))
	}
	return strings.Join(lines, "\n")
}

func eventDetail(ev *calendar.Event) string {
	var b strings.Builder
	field(&b, "Subject", ev.Subject)
	field(&b, "Start", eventStart(*ev))
	if ev.End != nil {
		field(&b, "End", ev.End.DateTime)
	}
	if loc := locationName(*ev); loc != "" {
		field(&b, "Location", loc)
	}
	if ev.Organizer != nil {
		field(&b, "Organizer", ev.Organizer.EmailAddress.Address)
	}
	for _, a := range ev.Attendees {
		status := ""
		if a.Status != nil {
			status = " (" + a.Status.Response + ")"
		}
		field(&b, "Attendee", a.EmailAddress.Address+status)
	}
	field(&b, "ID", ev.ID)
	if ev.Body != nil && ev.Body.Content != "" {
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n")
		b.WriteString(ev.Body.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func eventLine(ev calendar.Event) string {
	return fmt.Sprintf("%s | %s | %s", eventStart(ev), truncate(ev.Subject, 60), locationName(ev))
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func subject(m mail.Message) string {
	if m.Subject == "" {
		return "(no subject)"
	}
	return m.Subject
}

func fromAddress(m mail.Message) string {
	if m.From == nil {
		return "(unknown)"
	}
	return m.From.EmailAddress.Address
}

func receivedAt(m mail.Message) string {
	if m.ReceivedDateTime == nil {
		return ""
	}
	return m.ReceivedDateTime.Local().Format(time.RFC822)
}

func readMarker(m mail.Message) string {
	if m.IsRead != nil && !*m.IsRead {
		return "*"
	}
	return " "
}

func joinAddresses(rs []mail.Recipient) string {
	addrs := make([]string, 0, len(rs))
	for _, r := range rs {
		addrs = append(addrs, r.EmailAddress.Address)
	}
	return strings.Join(addrs, ", ")
}

func eventStart(ev calendar.Event) string {
	if ev.Start == nil {
		return ""
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", ev.Start.DateTime); err == nil {
		return t.Format("Mon Jan 2 15:04")
	}
	return ev.Start.DateTime
}

func locationName(ev calendar.Event) string {
	if ev.Location == nil {
		return ""
	}
	return ev.Location.DisplayName
}

func contactName(c contacts.Contact) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return strings.TrimSpace(c.GivenName + " " + c.Surname)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(data)
}
