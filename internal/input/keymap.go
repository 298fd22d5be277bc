package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a navigation or display intent derived from an input event.
type Action int

const (
	None Action = iota
	Advance
	Retreat
	First
	Last
	ToggleFullscreen
	ExitFullscreen
	ToggleMenu
	Activate
	ToggleHelp
	Quit
)

func (a Action) String() string {
	switch a {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	case First:
		return "first"
	case Last:
		return "last"
	case ToggleFullscreen:
		return "toggle_fullscreen"
	case ExitFullscreen:
		return "exit_fullscreen"
	case ToggleMenu:
		return "toggle_menu"
	case Activate:
		return "activate"
	case ToggleHelp:
		return "toggle_help"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// KeyMap defines the [key.Binding] mapping for presenting.
type KeyMap struct {
	Retreat    key.Binding
	Advance    key.Binding
	First      key.Binding
	Last       key.Binding
	Fullscreen key.Binding
	Escape     key.Binding
	Menu       key.Binding
	Activate   key.Binding
	Help       key.Binding
	Quit       key.Binding
	Yes        key.Binding
	No         key.Binding
}

// NewKeyMap returns the default bindings: arrows/space to move, home/end to jump, f or F11 for fullscreen.
func NewKeyMap() KeyMap {
	return KeyMap{
		Retreat:    key.NewBinding(key.WithKeys("left", "up", "pgup", "h", "k"), key.WithHelp("←/↑", "previous")),
		Advance:    key.NewBinding(key.WithKeys("right", "down", " ", "space", "pgdown", "l", "j"), key.WithHelp("→/↓/space", "next")),
		First:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
		Last:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
		Fullscreen: key.NewBinding(key.WithKeys("f", "f11"), key.WithHelp("f/F11", "fullscreen")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit fullscreen")),
		Menu:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "slides")),
		Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "action")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Yes:        key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "leave")),
		No:         key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "stay")),
	}
}

// Action maps a key press to an [Action]. Unbound keys yield [None].
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Retreat):
		return Retreat
	case key.Matches(msg, k.Advance):
		return Advance
	case key.Matches(msg, k.First):
		return First
	case key.Matches(msg, k.Last):
		return Last
	case key.Matches(msg, k.Fullscreen):
		return ToggleFullscreen
	case key.Matches(msg, k.Escape):
		return ExitFullscreen
	case key.Matches(msg, k.Menu):
		return ToggleMenu
	case key.Matches(msg, k.Activate):
		return Activate
	case key.Matches(msg, k.Help):
		return ToggleHelp
	case key.Matches(msg, k.Quit):
		return Quit
	default:
		return None
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retreat, k.Advance, k.Menu, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retreat, k.Advance, k.First, k.Last},
		{k.Fullscreen, k.Escape, k.Menu, k.Activate},
		{k.Help, k.Quit},
	}
}
