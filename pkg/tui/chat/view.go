package chat

import "github.com/charmbracelet/lipgloss"

func (m chatModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Viewport.Render(m.viewport.View()),
		m.statusBar.View(),
		m.styles.InputBorder.Render(m.textarea.View()),
	)
}
