package tui

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typers/internal/typing"
)

// KeyMap defines the keyboard bindings that are not typed text.
type KeyMap struct {
	Cancel key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip sentence"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// keyEvents converts a Bubble Tea key message into typing events.
func keyEvents(msg tea.KeyMsg) []typing.KeyEvent {
	switch msg.Type {
	case tea.KeyEsc:
		return []typing.KeyEvent{typing.Cancel()}
	case tea.KeySpace:
		return []typing.KeyEvent{typing.Char(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return []typing.KeyEvent{typing.Other()}
		}
		events := make([]typing.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) {
				events = append(events, typing.Char(r))
			} else {
				events = append(events, typing.Other())
			}
		}
		return events
	default:
		return []typing.KeyEvent{typing.Other()}
	}
}
