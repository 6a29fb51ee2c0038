package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/tui/chat/status"
	"github.com/killallgit/agentchat/pkg/tui/theme"
)

type chatModel struct {
	ctrl        *session.Controller
	renderer    *render.Renderer
	events      Events
	viewport    viewport.Model
	textarea    textarea.Model
	statusBar   status.StatusModel
	styles      *theme.Styles
	width       int
	height      int
	numEscPress int
}

func NewChatModel(ctrl *session.Controller, renderer *render.Renderer, events Events) chatModel {
	ta := textarea.New()
	ta.Focus()
	ta.Placeholder = "Ask the agent..."
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false)

	styles := theme.DefaultStyles()
	statusBar := status.NewStatusModel(styles).WithHint(hint)
	statusBar, _ = statusBar.Update(status.ConnectionMsg{Status: ctrl.ConnectionStatus()})

	m := chatModel{
		ctrl:      ctrl,
		renderer:  renderer,
		events:    events,
		viewport:  viewport.New(80, 20),
		textarea:  ta,
		statusBar: statusBar,
		styles:    styles,
	}
	m.updateViewportContent()
	return m
}
