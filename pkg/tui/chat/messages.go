package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/agentchat/pkg/conn"
)

// Events carries connection traffic into the UI loop
type Events struct {
	Frames <-chan conn.Frame
	Status <-chan conn.Status
}

type frameMsg struct {
	frame conn.Frame
}

type connStatusMsg struct {
	status conn.Status
}

type framesClosedMsg struct{}

// waitForFrame blocks on the next inbound frame. It is re-armed after every
// frame so frames are handled one at a time, in arrival order.
func waitForFrame(ch <-chan conn.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg{frame: f}
	}
}

func waitForStatus(ch <-chan conn.Status) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return connStatusMsg{status: s}
	}
}
