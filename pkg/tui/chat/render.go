package chat

import (
	"strings"

	"github.com/killallgit/agentchat/pkg/chat"
)

const cursor = "▌"

func (m chatModel) renderTranscript() string {
	msgs := m.ctrl.Messages()
	partial := m.ctrl.Partial()
	streaming := m.ctrl.IsStreaming()

	if len(msgs) == 0 && !streaming {
		return m.styles.Hint.Render("No messages yet. Type below and press enter.")
	}

	width := m.viewport.Width - 2
	if width <= 0 {
		width = 80
	}

	rendered := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		rendered = append(rendered, m.renderMessage(msg, width))
	}

	if streaming {
		body := m.renderBlocks(partial) + m.styles.Partial.Render(cursor)
		rendered = append(rendered, m.styles.AgentLabel.Render("Agent")+" "+
			m.styles.Timestamp.Render("streaming")+"\n"+body)
	}

	return strings.Join(rendered, "\n\n")
}

func (m chatModel) renderMessage(msg chat.Message, width int) string {
	ts := m.styles.Timestamp.Render(msg.Timestamp.Format("15:04:05"))
	if msg.IsUser() {
		return m.styles.UserLabel.Render("You") + " " + ts + "\n" +
			m.styles.UserMessage.Width(width).Render(msg.Text())
	}
	return m.styles.AgentLabel.Render("Agent") + " " + ts + "\n" + m.renderBlocks(msg.Content)
}

func (m chatModel) renderBlocks(blocks []chat.ContentBlock) string {
	if m.renderer == nil {
		var sb strings.Builder
		for _, b := range blocks {
			sb.WriteString(b.Text)
		}
		return sb.String()
	}
	return m.renderer.Blocks(blocks)
}

func (m *chatModel) updateViewportContent() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
