package cli

import (
	"github.com/alexanderramin/pipeline/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// pipelineHuhTheme styles prompts with the board palette: the focused field
// takes the header accent, everything else is dimmed.
func pipelineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	f := &t.Focused
	f.Title = formatter.StyleHeader
	f.Description = fg(formatter.ColorDim)
	f.ErrorMessage = fg(formatter.ColorRed)
	f.ErrorIndicator = fg(formatter.ColorRed)
	f.SelectSelector = fg(formatter.ColorHeader)
	f.SelectedOption = fg(formatter.ColorBlue).Bold(true)
	f.UnselectedOption = fg(formatter.ColorFg)
	f.TextInput.Cursor = fg(formatter.ColorHeader)
	f.TextInput.Prompt = fg(formatter.ColorBlue)
	f.TextInput.Text = fg(formatter.ColorFg)
	f.TextInput.Placeholder = fg(formatter.ColorDim)
	f.FocusedButton = fg(formatter.ColorFg).Background(formatter.ColorBlue).Padding(0, 1)
	f.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)

	b := &t.Blurred
	for _, s := range []*lipgloss.Style{
		&b.Title, &b.SelectSelector, &b.SelectedOption, &b.UnselectedOption,
		&b.TextInput.Prompt, &b.TextInput.Text,
	} {
		*s = fg(formatter.ColorDim)
	}

	return t
}
