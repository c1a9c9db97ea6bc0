package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/cli/formatter"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/spf13/cobra"
)

func newCardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}

	cmd.AddCommand(
		newCardAddCmd(app),
		newCardListCmd(app),
		newCardShowCmd(app),
		newCardUpdateCmd(app),
		newCardMoveCmd(app),
		newCardFavoriteCmd(app),
		newCardMessageCmd(app),
		newCardRemoveCmd(app),
	)

	return cmd
}

func newCardAddCmd(app *App) *cobra.Command {
	var title, column, department, phone, assign, description, note string
	var labels, collaborators []string
	var favorite bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a card, in the first column unless --column is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := domain.CardDraft{
				Title:         title,
				Department:    department,
				Favorite:      favorite,
				Labels:        labels,
				Collaborators: collaborators,
				Phone:         stringFlagPtr(cmd.Flags(), "phone"),
				AssignedTo:    stringFlagPtr(cmd.Flags(), "assign"),
				Description:   stringFlagPtr(cmd.Flags(), "description"),
				Observations:  stringFlagPtr(cmd.Flags(), "note"),
			}
			if column != "" {
				col, err := resolveColumn(ctx, app, column)
				if err != nil {
					return err
				}
				d.Status = col.ID
			}

			card, err := app.Cards.Create(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %s in %s [%s]\n",
				formatter.Bold(card.Title), columnTitle(ctx, app, card.Status), card.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Card title, usually the contact name")
	cmd.Flags().StringVar(&column, "column", "", "Column ID or title")
	cmd.Flags().StringVar(&department, "department", "", "Department")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&assign, "assign", "", "Assignee")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&note, "note", "", "Observations")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Label (repeatable)")
	cmd.Flags().StringSliceVar(&collaborators, "collaborator", nil, "Collaborator (repeatable)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newCardListCmd(app *App) *cobra.Command {
	var column string
	var favorites bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards in store order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cards, err := app.Cards.List(ctx)
			if err != nil {
				return err
			}
			titles, err := columnTitles(ctx, app)
			if err != nil {
				return err
			}

			var columnID string
			if column != "" {
				col, err := resolveColumn(ctx, app, column)
				if err != nil {
					return err
				}
				columnID = col.ID
			}
			shown := cards[:0:0]
			for _, c := range cards {
				if columnID != "" && c.Status != columnID {
					continue
				}
				if favorites && !c.Favorite {
					continue
				}
				shown = append(shown, c)
			}

			if len(shown) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCardList(shown, titles))
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Only cards in this column")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite cards")

	return cmd
}

func newCardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <card>",
		Short: "Show a card and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCard(card, columnTitle(ctx, app, card.Status)))
			return nil
		},
	}
}

func newCardUpdateCmd(app *App) *cobra.Command {
	var labels, collaborators []string

	cmd := &cobra.Command{
		Use:   "update <card>",
		Short: "Update card fields; use 'card move' to change its column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			p := domain.CardPatch{
				Title:        stringFlagPtr(flags, "title"),
				Department:   stringFlagPtr(flags, "department"),
				Phone:        stringFlagPtr(flags, "phone"),
				AssignedTo:   stringFlagPtr(flags, "assign"),
				Description:  stringFlagPtr(flags, "description"),
				Observations: stringFlagPtr(flags, "note"),
			}
			if flags.Changed("label") {
				p.Labels = &labels
			}
			if flags.Changed("collaborator") {
				p.Collaborators = &collaborators
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			updated, err := app.Cards.Update(ctx, card.ID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s\n", formatter.Bold(updated.Title))
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("department", "", "Department")
	cmd.Flags().String("phone", "", "Phone number (empty clears it)")
	cmd.Flags().String("assign", "", "Assignee (empty clears it)")
	cmd.Flags().String("description", "", "Description (empty clears it)")
	cmd.Flags().String("note", "", "Observations (empty clears it)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Replace labels (repeatable)")
	cmd.Flags().StringSliceVar(&collaborators, "collaborator", nil, "Replace collaborators (repeatable)")

	return cmd
}

// newCardMoveCmd moves a card the way a drag does: through the board
// controller, optimistically, then waits for the store to confirm.
func newCardMoveCmd(app *App) *cobra.Command {
	var index int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "move <card> <column>",
		Short: "Move a card to a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}
			dst, err := resolveColumn(ctx, app, args[1])
			if err != nil {
				return err
			}

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "saving move")
			}
			outcome, err := moveCard(ctx, ctrl, card, dst.ID, index, timeout)
			stop()
			if err != nil && outcome == "" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s  %s\n",
				formatter.Bold(card.Title), dst.Title, formatter.FormatOutcome(outcome, err))
			if outcome == board.OutcomeRolledBack {
				return fmt.Errorf("move of %s was rolled back: %w", card.Title, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", -1, "Position in the destination column (default: end)")
	cmd.Flags().DurationVar(&timeout, "wait", 10*time.Second, "How long to wait for the store")

	return cmd
}

// moveCard drives one drag gesture for card. An empty outcome means the
// gesture was rejected before anything moved.
func moveCard(ctx context.Context, ctrl *board.Controller, card *domain.Card, dst string, index int, wait time.Duration) (board.Outcome, error) {
	src := card.Status
	for _, c := range ctrl.Snapshot().Cards {
		if c.ID == card.ID {
			src = c.Status
		}
	}
	if index < 0 {
		index = len(ctrl.Board().CardIDs(dst))
	}

	if err := ctrl.OnDragStart(board.DragStart{Kind: board.DragCard, DraggableID: card.ID}); err != nil {
		return "", err
	}
	ticket, err := ctrl.OnDragEnd(board.DragEvent{
		Kind:         board.DragCard,
		DraggableID:  card.ID,
		SourceColumn: src,
		DestColumn:   dst,
		DestIndex:    index,
	})
	if err != nil {
		return "", err
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	return ticket.Wait(waitCtx)
}

func newCardFavoriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <card>",
		Short: "Toggle a card's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Cards.ToggleFavorite(ctx, card.ID)
			if err != nil {
				return err
			}
			state := "Unmarked"
			if updated.Favorite {
				state = "Marked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s as favorite\n", state, formatter.Bold(updated.Title))
			return nil
		},
	}
}

func newCardMessageCmd(app *App) *cobra.Command {
	var sender, content, kind string

	cmd := &cobra.Command{
		Use:   "msg <card>",
		Short: "Append a message to a card's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Cards.AppendMessage(ctx, card.ID, domain.Message{
				Sender:  sender,
				Content: content,
				Type:    domain.MessageType(kind),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added message to %s (%d total)\n", formatter.Bold(updated.Title), len(updated.Messages))
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Who sent it")
	cmd.Flags().StringVar(&content, "content", "", "Message text or attachment reference")
	cmd.Flags().StringVar(&kind, "type", string(domain.MessageText), "text, audio, image or file")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newCardRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <card>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			card, err := resolveCard(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s?", card.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
					return nil
				}
			}
			if err := app.Cards.Delete(ctx, card.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", formatter.Bold(card.Title))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func columnTitles(ctx context.Context, app *App) (map[string]string, error) {
	cols, err := app.Columns.List(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(cols))
	for _, c := range cols {
		titles[c.ID] = c.Title
	}
	return titles, nil
}

func columnTitle(ctx context.Context, app *App, id string) string {
	col, err := app.Columns.Get(ctx, id)
	if err != nil {
		return id
	}
	return col.Title
}
