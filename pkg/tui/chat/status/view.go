package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/tui/theme"
)

func (m StatusModel) View() string {
	var components []string

	components = append(components, m.connectionView())

	if m.streaming {
		part := m.spinner.View() + " streaming"
		if m.timer > 0 {
			minutes := int(m.timer.Minutes())
			seconds := int(m.timer.Seconds()) % 60
			part += fmt.Sprintf(" %02d:%02d", minutes, seconds)
		}
		if m.chunks > 0 {
			part += fmt.Sprintf(" %d chunks %s", m.chunks, formatBytes(m.bytes))
		}
		components = append(components, part)
	}

	if m.notice != "" {
		components = append(components, m.styles.Notice.Render(m.notice))
	} else if !m.streaming && m.hint != "" {
		components = append(components, m.styles.Hint.Render(m.hint))
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorBase03).Render(" | ")
	line := strings.Join(components, separator)

	style := m.styles.StatusBar
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(line)
}

func (m StatusModel) connectionView() string {
	switch m.conn {
	case conn.StatusConnected:
		return m.styles.Connected.Render("● connected")
	case conn.StatusConnecting:
		return m.styles.Connecting.Render("◌ connecting")
	default:
		return m.styles.Disconnected.Render("○ disconnected")
	}
}

func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	return fmt.Sprintf("%.1fKB", float64(n)/1024)
}
