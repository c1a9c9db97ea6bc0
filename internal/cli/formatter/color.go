package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// OutcomeColor returns the style for a settled gesture outcome.
func OutcomeColor(o board.Outcome) lipgloss.Style {
	switch o {
	case board.OutcomeCommitted, board.OutcomeReordered:
		return StyleGreen
	case board.OutcomePending:
		return StyleYellow
	case board.OutcomeRolledBack, board.OutcomeDropped:
		return StyleRed
	default:
		return StyleDim
	}
}

// OutcomeIndicator returns a colored outcome label such as "● COMMITTED".
func OutcomeIndicator(o board.Outcome) string {
	label := strings.ToUpper(strings.ReplaceAll(string(o), "_", " "))
	return OutcomeColor(o).Render("● " + label)
}

// Favorite renders the favorite marker, or a blank of the same width.
func Favorite(on bool) string {
	if on {
		return StyleYellow.Render("★")
	}
	return " "
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
