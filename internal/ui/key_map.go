package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter   key.Binding
	back    key.Binding
	history key.Binding
	retry   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "look up")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "new lookup")),
		history: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back},
		{k.history, k.retry, k.quit},
	}
}
