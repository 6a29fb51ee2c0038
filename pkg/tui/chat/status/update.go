package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ConnectionMsg:
		m.conn = msg.Status
		return m, nil

	case StartStreamingMsg:
		wasStreaming := m.streaming
		m.streaming = true
		m.startTime = time.Now()
		m.timer = 0
		m.chunks = 0
		m.bytes = 0
		if wasStreaming {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, tickEvery())

	case StreamProgressMsg:
		m.chunks = msg.Chunks
		m.bytes = msg.Bytes
		return m, nil

	case StopStreamingMsg:
		m.streaming = false
		m.timer = 0
		m.chunks = 0
		m.bytes = 0
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		return m, nil

	case TickMsg:
		if m.streaming {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
