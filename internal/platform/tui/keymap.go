package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chip8-runner/internal/core"
)

// KeyMap defines the emulator control bindings. Keypad keys are looked up
// separately through a core.Keymap.
type KeyMap struct {
	Pause      key.Binding
	Slower     key.Binding
	Faster     key.Binding
	Palette    key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
	Keypad     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keypad, k.Pause, k.Slower, k.Faster, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Keypad},
		{k.Pause, k.Slower, k.Faster},
		{k.Palette, k.Screenshot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default control bindings. Control keys avoid
// letters and digits so they never shadow the keypad.
func DefaultKeyMap(pad core.Keymap) KeyMap {
	padKeys := make([]string, 0, core.KeyCount)
	for _, r := range pad {
		padKeys = append(padKeys, string(r))
	}

	return KeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster"),
		),
		Palette: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "palette"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Keypad: key.NewBinding(
			key.WithKeys(padKeys...),
			key.WithHelp(pad.String(), "keypad 0-F"),
		),
	}
}

// PadKey translates a key message to a keypad value, or core.NoKey.
func PadKey(pad core.Keymap, msg tea.KeyMsg) int {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return core.NoKey
	}
	return pad.Lookup(msg.Runes[0])
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionHistory
	}

	return MenuActionNone
}
