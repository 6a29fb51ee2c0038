package chat

import (
	"github.com/killallgit/agentchat/pkg/tui/chat/status"
)

// runCommand handles slash commands typed into the input
func (m *chatModel) runCommand(input string) {
	notice := m.ctrl.RunCommand(input)
	m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: notice})
	m.updateViewportContent()
}
