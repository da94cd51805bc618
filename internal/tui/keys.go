package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tab         key.Binding
	Quit        key.Binding
	Theme       key.Binding
	NextScope   key.Binding
	PrevScope   key.Binding
	Fit         key.Binding
	FitSidebar  key.Binding
	Close       key.Binding
	Search      key.Binding
	Open        key.Binding
	Left        key.Binding
	Right       key.Binding
	Filter      key.Binding
	Unfilter    key.Binding
	ClearAll    key.Binding
	Column      key.Binding
	Sort        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	PageSize    key.Binding
	NextDataset key.Binding
	PrevDataset key.Binding
	Help        key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "map/table"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	NextScope: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "next floor"),
	),
	PrevScope: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "prev floor"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit map"),
	),
	FitSidebar: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "fit sidebar"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close sidebar"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open row"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "column"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "column"),
	),
	Filter: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "filter cell"),
	),
	Unfilter: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "drop cell filter"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "remove all filters"),
	),
	Column: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "hide column"),
	),
	Sort: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	PageSize: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "page size"),
	),
	NextDataset: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next dataset"),
	),
	PrevDataset: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev dataset"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.NextScope, k.Close, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.NextScope, k.PrevScope, k.Fit, k.FitSidebar, k.Close},
		{k.Search, k.Open, k.Left, k.Right, k.Filter, k.Unfilter, k.ClearAll},
		{k.Column, k.Sort, k.NextPage, k.PrevPage, k.PageSize, k.NextDataset, k.PrevDataset},
		{k.Theme, k.Help, k.Quit},
	}
}
