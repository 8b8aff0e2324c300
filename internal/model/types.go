package model

import (
	"fmt"
	"time"
)

// DefaultFolder is where freshly fetched messages land.
const DefaultFolder = "INBOX"

// Message is the lightweight metadata we persist for one mail message.
// ID is assigned by the store; ExternalID is the provider's message ID and
// acts as the natural key (duplicates are rejected, never overwritten).
type Message struct {
	ID         int64
	ExternalID string
	Sender     string // raw From header, e.g. `Boss <boss@example.com>`
	Subject    string
	ReceivedAt time.Time // zero when the Date header could not be parsed
	Snippet    string
	Folder     string
	IsRead     bool
}

func (m Message) FilterValue() string { return m.Subject }

func (m Message) Title() string {
	if m.Subject == "" {
		return "(no subject)"
	}
	return m.Subject
}

func (m Message) Description() string {
	read := "unread"
	if m.IsRead {
		read = "read"
	}
	if m.ReceivedAt.IsZero() {
		return fmt.Sprintf("From: %s  [%s, %s]", m.Sender, m.Folder, read)
	}
	return fmt.Sprintf("From: %s  %s  [%s, %s]",
		m.Sender, m.ReceivedAt.Local().Format("2006-01-02 15:04"), m.Folder, read)
}
