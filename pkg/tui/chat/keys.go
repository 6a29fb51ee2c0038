package chat

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit  key.Binding
	Newline key.Binding
	Clear   key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Submit:  key.NewBinding(key.WithKeys("enter")),
	Newline: key.NewBinding(key.WithKeys("alt+enter")),
	Clear:   key.NewBinding(key.WithKeys("ctrl+l")),
	Escape:  key.NewBinding(key.WithKeys("esc")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c")),
}

const hint = "enter send · alt+enter newline · ctrl+l clear · /help · ctrl+c quit"
