package tui

import (
	"fmt"
	"sort"
	"time"

	"mailsift/internal/model"
	"mailsift/internal/util"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().
	Faint(true).
	Padding(0, 1)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1)

// messageItem wraps a stored message for the list display.
type messageItem struct {
	model.Message
}

func (i messageItem) FilterValue() string { return i.Subject }

func messagesFooter() string {
	return footerStyle.Render("enter: view  r: toggle read  /: filter  q: quit")
}

func detailFooter() string {
	return footerStyle.Render("esc: back  q: quit")
}

func detailHeader(m model.Message) string {
	return headerStyle.Render(fmt.Sprintf("%s — %s", m.Title(), util.SenderLabel(m.Sender)))
}

func detailContent(m model.Message) string {
	date := "(unknown)"
	if !m.ReceivedAt.IsZero() {
		date = m.ReceivedAt.Local().Format(time.RFC1123)
	}
	read := "no"
	if m.IsRead {
		read = "yes"
	}
	body := m.Snippet
	if body == "" {
		body = "(no snippet stored)"
	}
	return fmt.Sprintf(
		"From:    %s\nSubject: %s\nDate:    %s\nFolder:  %s\nRead:    %s\n\n%s",
		m.Sender, m.Subject, date, m.Folder, read, body,
	)
}

// messageItems returns stored messages sorted reverse chronologically as list
// items; undated messages sort last in store order.
func messageItems(msgs []model.Message) []list.Item {
	sorted := make([]model.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReceivedAt.After(sorted[j].ReceivedAt)
	})
	items := make([]list.Item, len(sorted))
	for i, m := range sorted {
		items[i] = messageItem{m}
	}
	return items
}
