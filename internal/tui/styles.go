package tui

import "github.com/charmbracelet/lipgloss"

const (
	minColumnWidth = 24
	maxColumnWidth = 40
)

var (
	colorAccent = lipgloss.Color("#fe8019")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorBorder = lipgloss.Color("#504945")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	queryStyle = lipgloss.NewStyle().Foreground(colorBlue)
	starStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle   = lipgloss.NewStyle().Foreground(colorRed)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	selectedColumnStyle = columnStyle.
				BorderForeground(colorAccent)

	dropTargetColumnStyle = columnStyle.
				BorderForeground(colorGreen)

	columnTitleStyle = lipgloss.NewStyle().Foreground(colorFg).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorBorder).
			PaddingLeft(1)

	selectedCardStyle = cardStyle.
				BorderForeground(colorAccent).
				Bold(true)

	grabbedCardStyle = cardStyle.
				BorderForeground(colorDim).
				Foreground(colorDim).
				Italic(true)

	dropMarkerStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)
