package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForFrame(m.events.Frames),
		waitForStatus(m.events.Status),
	)
}
