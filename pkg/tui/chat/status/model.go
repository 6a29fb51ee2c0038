package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/tui/theme"
)

// StatusModel is the one-line status bar under the transcript
type StatusModel struct {
	spinner   spinner.Model
	styles    *theme.Styles
	conn      conn.Status
	streaming bool
	chunks    int
	bytes     int
	startTime time.Time
	timer     time.Duration
	notice    string
	hint      string
	width     int
}

// NewStatusModel creates a new status bar model
func NewStatusModel(styles *theme.Styles) StatusModel {
	if styles == nil {
		styles = theme.DefaultStyles()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorOrange)

	return StatusModel{
		spinner: s,
		styles:  styles,
		conn:    conn.StatusDisconnected,
	}
}

// WithHint sets the key hint shown while idle
func (m StatusModel) WithHint(hint string) StatusModel {
	m.hint = hint
	return m
}

func (m StatusModel) Connection() conn.Status {
	return m.conn
}

func (m StatusModel) IsStreaming() bool {
	return m.streaming
}

func (m StatusModel) Notice() string {
	return m.notice
}
