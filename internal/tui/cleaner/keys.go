package cleaner

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up             key.Binding
	down           key.Binding
	toggle         key.Binding
	selectAll      key.Binding
	deleteOne      key.Binding
	deleteSelected key.Binding
	open           key.Binding
	openNewView    key.Binding
	preview        key.Binding
	filter         key.Binding
	rescan         key.Binding
	quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		selectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		deleteOne: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		deleteSelected: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete selected"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		openNewView: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in obsidian"),
		),
		preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.selectAll, k.deleteOne, k.deleteSelected, k.open, k.filter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle, k.selectAll},
		{k.deleteOne, k.deleteSelected, k.rescan},
		{k.open, k.openNewView, k.preview, k.filter, k.quit},
	}
}
