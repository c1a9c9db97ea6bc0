package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/cli/formatter"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/spf13/cobra"
)

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage board columns",
	}

	cmd.AddCommand(
		newColumnAddCmd(app),
		newColumnListCmd(app),
		newColumnRemoveCmd(app),
		newColumnMoveCmd(app),
		newColumnDisplayCmd(app),
	)

	return cmd
}

func newColumnAddCmd(app *App) *cobra.Command {
	var choice, title, icon string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a column at the right end of the board",
		Long: "Add a column with a predefined title (--choice) or a custom one (--title).\n" +
			"Without flags on a terminal, a picker asks for the title.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := domain.ColumnDraft{TitleChoice: domain.TitleChoice(choice), Icon: icon}
			switch {
			case title != "":
				d.TitleChoice = domain.TitleCustom
				d.CustomTitle = title
			case choice == "" && app.interactive():
				if err := columnPickerForm(&d).Run(); err != nil {
					return err
				}
			case choice == "":
				return fmt.Errorf("pass --choice or --title (choices: %s)", choiceList())
			}

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			col, err := ctrl.CreateColumn(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created column %s %s [%s]\n", col.Icon, formatter.Bold(col.Title), col.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&choice, "choice", "", "Predefined title: "+choiceList())
	cmd.Flags().StringVar(&title, "title", "", "Custom title")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon (default "+domain.DefaultIcon+")")
	cmd.MarkFlagsMutuallyExclusive("choice", "title")

	return cmd
}

func choiceList() string {
	names := make([]string, 0, len(domain.TitleChoices))
	for _, c := range domain.TitleChoices {
		if c != domain.TitleCustom {
			names = append(names, string(c))
		}
	}
	return strings.Join(names, ", ")
}

func newColumnListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List columns in board order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cols, err := app.Columns.List(ctx)
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No columns.")
				return nil
			}
			cards, err := app.Cards.List(ctx)
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(cols))
			for _, c := range cards {
				counts[c.Status]++
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatColumnList(cols, counts))
			return nil
		},
	}
}

func newColumnRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <column>",
		Short: "Delete a column; its cards move to a neighbouring column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			col, err := resolveColumn(ctx, app, args[0])
			if err != nil {
				return err
			}

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			res, err := ctrl.DeleteColumn(ctx, col.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDeletion(res, col.Title, columnTitle(ctx, app, res.FallbackID)))
			return nil
		},
	}
}

func newColumnMoveCmd(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "move <column> <index>",
		Short: "Move a column to a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			col, err := resolveColumn(ctx, app, args[0])
			if err != nil {
				return err
			}
			dest, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			ids := make([]string, 0)
			for _, c := range ctrl.Snapshot().Columns {
				ids = append(ids, c.ID)
			}
			if err := ctrl.OnDragStart(board.DragStart{Kind: board.DragColumn, DraggableID: col.ID}); err != nil {
				return err
			}
			ticket, err := ctrl.OnDragEnd(board.DragEvent{
				Kind:        board.DragColumn,
				DraggableID: col.ID,
				SourceIndex: slices.Index(ids, col.ID),
				DestIndex:   dest,
			})
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "saving column order")
			}
			waitCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			outcome, err := ticket.Wait(waitCtx)
			stop()
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %d  %s\n", formatter.Bold(col.Title), dest, formatter.FormatOutcome(outcome, err))
			if outcome == board.OutcomeRolledBack {
				return fmt.Errorf("column order was restored: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "wait", 10*time.Second, "How long to wait for the store")

	return cmd
}

func newColumnDisplayCmd(app *App) *cobra.Command {
	var mode displayKindValue
	var label string
	var from, to *time.Time

	cmd := &cobra.Command{
		Use:   "display <column>",
		Short: "Set how a column sorts or filters its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			col, err := resolveColumn(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, err := domain.NewDisplayMode(domain.DisplayKind(mode), label, from, endOfDay(to))
			if err != nil {
				return err
			}

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			updated, err := ctrl.SetColumnDisplay(ctx, col.ID, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now shows %s\n", formatter.Bold(updated.Title), domain.DescribeDisplay(updated.Display))
			return nil
		},
	}

	cmd.Flags().Var(&mode, "mode", "natural, oldest, newest, label or date_range")
	cmd.Flags().StringVar(&label, "label", "", "Label for --mode label")
	cmd.Flags().Var(dateValue{t: &from}, "from", "Range start for --mode date_range (YYYY-MM-DD)")
	cmd.Flags().Var(dateValue{t: &to}, "to", "Range end for --mode date_range (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}
