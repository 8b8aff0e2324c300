// Package tui is a small browser over the local message store: a list view
// and a detail view showing the stored snippet. It never talks to Gmail;
// everything it shows and mutates lives in SQLite.
package tui

import (
	"context"
	"fmt"

	"mailsift/internal/model"
	"mailsift/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type viewState int

const (
	viewMessages viewState = iota
	viewDetail
)

type messagesLoadedMsg struct {
	msgs []model.Message
	err  error
}

type readToggledMsg struct {
	externalID string
	isRead     bool
	err        error
}

type AppModel struct {
	store *store.SQLiteStore
	Err   error

	view     viewState
	selected *model.Message

	messagesList list.Model
	detail       viewport.Model

	width, height int
}

func NewAppModel(st *store.SQLiteStore) AppModel {
	ml := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	ml.Title = "mailsift"
	ml.KeyMap.Quit.SetKeys("q", "ctrl+c")

	return AppModel{
		store:        st,
		view:         viewMessages,
		messagesList: ml,
		detail:       viewport.New(0, 0),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.loadMessagesCmd()
}

func (m *AppModel) loadMessagesCmd() tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.store.ListAll(context.Background())
		return messagesLoadedMsg{msgs: msgs, err: err}
	}
}

func (m *AppModel) toggleReadCmd(msg model.Message) tea.Cmd {
	return func() tea.Msg {
		target := !msg.IsRead
		_, err := m.store.UpdateReadStatus(context.Background(), msg.ExternalID, target)
		return readToggledMsg{externalID: msg.ExternalID, isRead: target, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.messagesList.SetSize(msg.Width, msg.Height-2) // room for footer
		m.detail.Width = msg.Width
		m.detail.Height = msg.Height - 6 // room for header + footer
		return m, nil

	case messagesLoadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, tea.Quit
		}
		m.messagesList.SetItems(messageItems(msg.msgs))
		return m, nil

	case readToggledMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, tea.Quit
		}
		// Reload so the list reflects the new flag.
		return m, m.loadMessagesCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		if m.view == viewMessages && !m.messagesList.SettingFilter() {
			if it, ok := m.messagesList.SelectedItem().(messageItem); ok {
				sel := it.Message
				m.selected = &sel
				m.detail.SetContent(detailContent(sel))
				m.detail.GotoTop()
				m.view = viewDetail
				return m, nil
			}
		}

	case "esc":
		if m.view == viewDetail {
			m.view = viewMessages
			m.selected = nil
			return m, nil
		}

	case "q":
		if m.view == viewDetail {
			return m, tea.Quit
		}

	case "r":
		if m.view == viewMessages && !m.messagesList.SettingFilter() {
			if it, ok := m.messagesList.SelectedItem().(messageItem); ok {
				return m, m.toggleReadCmd(it.Message)
			}
		}
	}
	return m.updateActive(msg)
}

func (m *AppModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewMessages:
		m.messagesList, cmd = m.messagesList.Update(msg)
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) View() string {
	switch m.view {
	case viewDetail:
		header := ""
		if m.selected != nil {
			header = detailHeader(*m.selected)
		}
		return fmt.Sprintf("%s\n%s\n%s", header, m.detail.View(), detailFooter())
	default:
		return m.messagesList.View() + "\n" + messagesFooter()
	}
}
