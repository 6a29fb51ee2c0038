package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/stream"
	"github.com/killallgit/agentchat/pkg/tui/chat/status"
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		m.statusBar, _ = m.statusBar.Update(msg)

	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case frameMsg:
		u := m.ctrl.HandleFrame(msg.frame)
		cmd := m.applyUpdate(u)
		return m, tea.Batch(cmd, waitForFrame(m.events.Frames))

	case framesClosedMsg:
		logger.Debug("frame channel closed")
		return m, nil

	case connStatusMsg:
		m.statusBar, _ = m.statusBar.Update(status.ConnectionMsg{Status: msg.status})
		if msg.status == conn.StatusDisconnected {
			m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: "connection closed"})
			if m.statusBar.IsStreaming() {
				m.statusBar, _ = m.statusBar.Update(status.StopStreamingMsg{})
			}
		}
		return m, waitForStatus(m.events.Status)

	default:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applyUpdate reflects one controller update in the status bar and viewport
func (m *chatModel) applyUpdate(u session.Update) tea.Cmd {
	var cmds []tea.Cmd

	if u.Notice != "" {
		m.statusBar, _ = m.statusBar.Update(status.NoticeMsg{Text: u.Notice})
	}

	switch u.Result.Outcome {
	case stream.OutcomeStarted:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(status.StartStreamingMsg{})
		cmds = append(cmds, cmd)
	case stream.OutcomeChunk:
		if !m.statusBar.IsStreaming() {
			var cmd tea.Cmd
			m.statusBar, cmd = m.statusBar.Update(status.StartStreamingMsg{})
			cmds = append(cmds, cmd)
		}
		if stats, ok := m.ctrl.Stats(); ok {
			m.statusBar, _ = m.statusBar.Update(status.StreamProgressMsg{
				Chunks: stats.ChunkCount,
				Bytes:  stats.ContentLength,
			})
		}
	}
	if u.Terminal() {
		m.statusBar, _ = m.statusBar.Update(status.StopStreamingMsg{})
	}

	if u.TranscriptChanged || u.PartialChanged {
		m.updateViewportContent()
	}
	return tea.Batch(cmds...)
}
