package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the colors of one theme
type palette struct {
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Edge     string
	Error    lipgloss.Color
	Success  lipgloss.Color
	Border   lipgloss.Color
	Selected lipgloss.Color
}

var (
	lightPalette = palette{
		Accent:   lipgloss.Color("#2563eb"),
		Muted:    lipgloss.Color("#6b7280"),
		Edge:     "#9ca3af",
		Error:    lipgloss.Color("#dc2626"),
		Success:  lipgloss.Color("#16a34a"),
		Border:   lipgloss.Color("#d1d5db"),
		Selected: lipgloss.Color("#dbeafe"),
	}
	darkPalette = palette{
		Accent:   lipgloss.Color("#60a5fa"),
		Muted:    lipgloss.Color("#9ca3af"),
		Edge:     "#4b5563",
		Error:    lipgloss.Color("#f87171"),
		Success:  lipgloss.Color("#4ade80"),
		Border:   lipgloss.Color("#374151"),
		Selected: lipgloss.Color("#1e3a8a"),
	}
)

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	title       lipgloss.Style
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	pane        lipgloss.Style
	hint        lipgloss.Style
	detailKey   lipgloss.Style
	errorMsg    lipgloss.Style
	successMsg  lipgloss.Style
	help        lipgloss.Style
	chip        lipgloss.Style
}

func newStyles(dark bool) styles {
	p := paletteFor(dark)
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginLeft(1),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(p.Accent).
			Padding(0, 2),
		inactiveTab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 2),
		pane: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		hint: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		detailKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		errorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		successMsg: lipgloss.NewStyle().
			Foreground(p.Success),
		help: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginLeft(1),
		chip: lipgloss.NewStyle().
			Foreground(p.Accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
	}
}
