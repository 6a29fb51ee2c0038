package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	maxInputHeight = 10
	// input border (2) plus status bar (1)
	chromeHeight = 3
)

// calculateTextAreaHeight determines the visual height of the textarea
// based on its content and wrapping
func (m *chatModel) calculateTextAreaHeight() int {
	content := m.textarea.Value()
	if content == "" {
		return 1
	}

	textWidth := m.textarea.Width()
	if textWidth <= 0 {
		textWidth = m.width - 4
		if textWidth <= 0 {
			textWidth = 80
		}
	}

	total := 0
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			total++
			continue
		}
		visual := (runewidth.StringWidth(line) + textWidth - 1) / textWidth
		if visual < 1 {
			visual = 1
		}
		total += visual
	}

	if total > maxInputHeight {
		return maxInputHeight
	}
	return total
}

func (m *chatModel) updateViewportHeight() {
	if m.height <= 0 {
		return
	}
	h := m.height - m.textarea.Height() - chromeHeight
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
}

// handleWindowResize updates all dimensions when window size changes
func (m *chatModel) handleWindowResize(width, height int) {
	m.width = width
	m.height = height

	m.textarea.SetWidth(width - 4)
	m.textarea.SetHeight(m.calculateTextAreaHeight())

	m.viewport.Width = width
	m.updateViewportHeight()

	if m.renderer != nil {
		m.renderer.SetWidth(width - 2)
	}
	m.updateViewportContent()
}
