package tui

import "github.com/charmbracelet/lipgloss"

// Theme contains the lipgloss styles of every screen. Palette colors the
// race view; the rest style the panels.
type Theme struct {
	Palette Palette


	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Item        lipgloss.Style
	ItemActive  lipgloss.Style
	ItemLocked  lipgloss.Style
	Value       lipgloss.Style
	Good        lipgloss.Style
	Muted       lipgloss.Style
	Status      lipgloss.Style
	Warning     lipgloss.Style
	Help        lipgloss.Style
	Panel       lipgloss.Style
	Overlay     lipgloss.Style
	OverlayText lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: DefaultPalette(),

		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		ItemLocked:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Value:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		Good:        lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Warning:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 3),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("205")).Padding(1, 4),
		OverlayText: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
	}
}
