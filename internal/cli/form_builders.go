package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/charmbracelet/huh"
)

// titleChoiceOptions lists the picker entries in display order.
func titleChoiceOptions() []huh.Option[domain.TitleChoice] {
	opts := make([]huh.Option[domain.TitleChoice], len(domain.TitleChoices))
	for i, c := range domain.TitleChoices {
		opts[i] = huh.NewOption(c.Label(), c)
	}
	return opts
}

// columnPickerForm collects a column draft: a predefined title or a custom
// one, plus an optional icon. The custom title field only shows for the
// custom choice.
func columnPickerForm(d *domain.ColumnDraft) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.TitleChoice]().
				Title("Column title").
				Options(titleChoiceOptions()...).
				Value(&d.TitleChoice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom title").
				Placeholder("Retorno").
				Value(&d.CustomTitle).
				Validate(validateRequired),
		).WithHideFunc(func() bool { return d.TitleChoice != domain.TitleCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Icon (blank for "+domain.DefaultIcon+")").
				Value(&d.Icon),
		),
	).WithTheme(pipelineHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	).WithTheme(pipelineHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
