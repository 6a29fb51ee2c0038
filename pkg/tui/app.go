package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/tui/chat"
)

// StartApp runs the chat screen over a connected m until the user quits and
// closes m on the way out. The bridge must have been created from m before m
// was connected.
func StartApp(ctx context.Context, m *conn.Manager, bridge *Bridge, ctrl *session.Controller, renderer *render.Renderer) error {
	defer bridge.Stop()

	root := NewRootModel(chat.NewChatModel(ctrl, renderer, bridge.Events()))
	p := tea.NewProgram(root, tea.WithContext(ctx), tea.WithAltScreen())

	logger.Info("starting chat UI for %s", m.URL())
	_, err := p.Run()

	if cerr := shutdown(m, bridge); cerr != nil {
		logger.Warn("close connection: %v", cerr)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}

// shutdown stops the bridge, then closes m
func shutdown(m *conn.Manager, bridge *Bridge) error {
	bridge.Stop()
	return m.Close()
}
