package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("#FF8C42")
	highlight = lipgloss.Color("#FFB84D")
	muted     = lipgloss.Color("#6B7280")
	stripe    = lipgloss.Color("#2A2A2A")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(muted).
				Padding(0, 2)

	StatusStyle = lipgloss.NewStyle().
			Foreground(muted).
			Background(stripe).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Background(stripe).
			Bold(true).
			Padding(0, 1)

	GridHeaderStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(muted)

	EvenRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	OddRowStyle = EvenRowStyle.
			Background(stripe)

	SelectedRowStyle = EvenRowStyle.
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(accent)
)

// stripedRow shades every other row and highlights the cursor row.
func stripedRow(i int, selected bool) lipgloss.Style {
	switch {
	case selected:
		return SelectedRowStyle
	case i%2 == 1:
		return OddRowStyle
	}
	return EvenRowStyle
}
