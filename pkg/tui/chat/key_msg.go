package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/tui/chat/status"
)

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Escape) {
		m.numEscPress = 0
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		m.numEscPress++
		if m.numEscPress == 2 {
			m.resetInput()
			m.numEscPress = 0
		}
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.clearChat()
		return m, nil

	case key.Matches(msg, keys.Newline):
		m.textarea.InsertString("\n")
		m.fitTextarea()
		return m, nil

	case key.Matches(msg, keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.fitTextarea()
	return m, cmd
}

func (m chatModel) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()

	if session.IsCommand(input) {
		m.runCommand(input)
		m.resetInput()
		return m, nil
	}

	ok, err := m.ctrl.Submit(input)
	switch {
	case errors.Is(err, conn.ErrNotConnected):
		m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: "not connected: message not sent"})
		return m, nil
	case err != nil:
		m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: err.Error()})
		return m, nil
	}

	m.resetInput()
	if ok {
		m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{})
		m.updateViewportContent()
	}
	return m, nil
}

func (m *chatModel) resetInput() {
	m.textarea.Reset()
	m.textarea.SetHeight(1)
	m.updateViewportHeight()
}

func (m *chatModel) clearChat() {
	m.ctrl.Clear()
	m.resetInput()
	m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: "chat cleared"})
	m.updateViewportContent()
}

// fitTextarea grows or shrinks the input to its content
func (m *chatModel) fitTextarea() {
	newHeight := m.calculateTextAreaHeight()
	if m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.updateViewportHeight()
	}
}
