package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// quitKey exits from any view
var quitKey = key.NewBinding(key.WithKeys("ctrl+c"))

type rootModel struct {
	views      []tea.Model
	activeView int
	width      int
	height     int
}

func (m rootModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, view := range m.views {
		cmds = append(cmds, view.Init())
	}
	return tea.Batch(cmds...)
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.activeView < len(m.views) {
		var cmd tea.Cmd
		m.views[m.activeView], cmd = m.views[m.activeView].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m rootModel) View() string {
	if m.activeView >= len(m.views) {
		return ""
	}
	return m.views[m.activeView].View()
}

func NewRootModel(views ...tea.Model) *rootModel {
	return &rootModel{
		views: views,
	}
}
