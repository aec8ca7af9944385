package mail

import "time"

// Message is a Graph mail message. Pointer and zero values distinguish
// fields omitted by $select from genuinely empty ones where it matters.
type Message struct {
	ID               string       `json:"id"`
	Subject          string       `json:"subject,omitempty"`
	BodyPreview      string       `json:"bodyPreview,omitempty"`
	Body             *MessageBody `json:"body,omitempty"`
	From             *Recipient   `json:"from,omitempty"`
	ToRecipients     []Recipient  `json:"toRecipients,omitempty"`
	CcRecipients     []Recipient  `json:"ccRecipients,omitempty"`
	BccRecipients    []Recipient  `json:"bccRecipients,omitempty"`
	ReceivedDateTime *time.Time   `json:"receivedDateTime,omitempty"`
	SentDateTime     *time.Time   `json:"sentDateTime,omitempty"`
	IsRead           *bool        `json:"isRead,omitempty"`
	IsDraft          *bool        `json:"isDraft,omitempty"`
	Importance       string       `json:"importance,omitempty"`
	HasAttachments   *bool        `json:"hasAttachments,omitempty"`
	ConversationID   string       `json:"conversationId,omitempty"`
	ParentFolderID   string       `json:"parentFolderId,omitempty"`
	Flag             *MessageFlag `json:"flag,omitempty"`
	Categories       []string     `json:"categories,omitempty"`
}

// MessageBody is a message body with its content type ("Text" or "HTML").
type MessageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Recipient wraps an email address the way Graph nests it.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// NewRecipient builds a recipient from a bare address.
func NewRecipient(address string) Recipient {
	return Recipient{EmailAddress: EmailAddress{Address: address}}
}

// EmailAddress is a name/address pair.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// MessageFlag is the follow-up flag on a message.
type MessageFlag struct {
	FlagStatus string `json:"flagStatus,omitempty"`
}

// MailFolder is a Graph mail folder.
type MailFolder struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	TotalItemCount  int    `json:"totalItemCount,omitempty"`
	UnreadItemCount int    `json:"unreadItemCount,omitempty"`
}

// Attachment is a file attached to a message; ContentBytes is base64.
type Attachment struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType,omitempty"`
	Size         int    `json:"size,omitempty"`
	IsInline     bool   `json:"isInline,omitempty"`
	ContentBytes string `json:"contentBytes,omitempty"`
}

// SendMailRequest is the body of POST /me/sendMail.
type SendMailRequest struct {
	Message         OutgoingMessage `json:"message"`
	SaveToSentItems bool            `json:"saveToSentItems"`
}

// OutgoingMessage is a message being composed for sending.
type OutgoingMessage struct {
	Subject       string      `json:"subject"`
	Body          MessageBody `json:"body"`
	ToRecipients  []Recipient `json:"toRecipients"`
	CcRecipients  []Recipient `json:"ccRecipients,omitempty"`
	BccRecipients []Recipient `json:"bccRecipients,omitempty"`
}

// Draft collects the fields of an outgoing message before it is shaped
// into a SendMailRequest.
type Draft struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	HTML    bool
}

// Request shapes the draft into the wire request. Sent messages are saved
// to Sent Items.
func (d Draft) Request() SendMailRequest {
	contentType := "Text"
	if d.HTML {
		contentType = "HTML"
	}
	msg := OutgoingMessage{
		Subject: d.Subject,
		Body:    MessageBody{ContentType: contentType, Content: d.Body},
	}
	for _, addr := range d.To {
		msg.ToRecipients = append(msg.ToRecipients, NewRecipient(addr))
	}
	for _, addr := range d.Cc {
		msg.CcRecipients = append(msg.CcRecipients, NewRecipient(addr))
	}
	for _, addr := range d.Bcc {
		msg.BccRecipients = append(msg.BccRecipients, NewRecipient(addr))
	}
	return SendMailRequest{Message: msg, SaveToSentItems: true}
}
