package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. Bindings that do nothing on the current
// page are disabled so the help bar only lists what works.
type keyMap struct {
	Signal1   key.Binding
	Signal2   key.Binding
	Signal3   key.Binding
	Coherence key.Binding
	Action    key.Binding
	Up        key.Binding
	Down      key.Binding
	Back      key.Binding
	Next      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Signal1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "signal I"),
		),
		Signal2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "signal II"),
		),
		Signal3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "signal III"),
		),
		Coherence: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next map"),
		),
		Action: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "left"),
			key.WithHelp("b", "back"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "continue"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Signal1, k.Signal2, k.Signal3, k.Coherence, k.Action, k.Back, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Signal1, k.Signal2, k.Signal3, k.Coherence},
		{k.Action, k.Up, k.Down},
		{k.Back, k.Next, k.Help, k.Quit},
	}
}

// forPage enables the bindings that act on r in phase-dependent state.
func (k keyMap) forPage(r route, switcher, coherence bool) keyMap {
	landing := r == routeLanding
	k.Signal1.SetEnabled(landing && switcher)
	k.Signal2.SetEnabled(landing && switcher)
	k.Signal3.SetEnabled(landing && switcher)
	k.Coherence.SetEnabled(landing && coherence)
	k.Up.SetEnabled(r == routePaths)
	k.Down.SetEnabled(r == routePaths)
	k.Back.SetEnabled(!landing)
	k.Next.SetEnabled(r == routeARG || r == routePlatform)
	return k
}
