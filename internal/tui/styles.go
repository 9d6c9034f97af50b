package tui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	Header       lipgloss.Style
	Card         lipgloss.Style
	Selected     lipgloss.Style
	Dragged      lipgloss.Style
	Preview      lipgloss.Style
	Error        lipgloss.Style
	Muted        lipgloss.Style
}

func DefaultStyles() Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		Column: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(28),
		ColumnActive: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(28),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Dragged: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		Preview: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
