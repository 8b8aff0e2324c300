package gmail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mailsift/internal/model"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// FetchMessages retrieves up to max INBOX messages for the authenticated user
// and maps them to stored message records. It lists message ids first, then
// reads each message with Format=METADATA, which carries the From/Subject/Date
// headers, the snippet, and the label ids we derive the read flag from.
// Messages whose metadata cannot be read are skipped, not fatal.
func FetchMessages(ctx context.Context, svc *gmailv1.Service, max int64) ([]model.Message, error) {
	user := "me"
	list, err := svc.Users.Messages.List(user).
		LabelIds("INBOX").
		MaxResults(max).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var msgs []model.Message
	for _, m := range list.Messages {
		select {
		case <-ctx.Done():
			return msgs, ctx.Err()
		default:
		}
		full, err := svc.Users.Messages.Get(user, m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Do()
		if err != nil {
			continue
		}
		msgs = append(msgs, messageFromAPI(full))
	}
	return msgs, nil
}

// messageFromAPI maps one Gmail API message onto the store's record shape.
func messageFromAPI(msg *gmailv1.Message) model.Message {
	m := model.Message{
		ExternalID: msg.Id,
		Snippet:    msg.Snippet,
		Folder:     model.DefaultFolder,
		IsRead:     true,
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				m.Sender = h.Value
			case "subject":
				m.Subject = h.Value
			case "date":
				m.ReceivedAt = parseReceivedAt(h.Value)
			}
		}
	}
	for _, l := range msg.LabelIds {
		if l == "UNREAD" {
			m.IsRead = false
			break
		}
	}
	return m
}

// parseReceivedAt parses a Date header into a timezone-aware instant. Returns
// the zero time when no known layout matches.
func parseReceivedAt(h string) time.Time {
	if h == "" {
		return time.Time{}
	}
	// Try common formats Gmail uses in Date header.
	layouts := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.RFC850,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, h); err == nil {
			return t
		}
	}
	return time.Time{}
}
