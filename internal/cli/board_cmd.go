package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/pipeline/internal/cli/formatter"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/alexanderramin/pipeline/internal/httpapi"
	"github.com/alexanderramin/pipeline/internal/tui"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var query string
	var columnQueries map[string]string
	var favorites bool
	var from, to *time.Time
	var order cardOrderValue
	var tags []string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board as it would appear with the given filters",
		Example: "  pipeline board --query silva\n" +
			"  pipeline board --column-query aguardando=maria --favorites\n" +
			"  pipeline board --from 2025-03-01 --order newest --tag urgent --tag encaixe",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.SetGlobalQuery(query); err != nil {
				return err
			}
			for ref, q := range columnQueries {
				col, err := resolveColumn(ctx, app, ref)
				if err != nil {
					return err
				}
				if err := ctrl.SetColumnQuery(col.ID, q); err != nil {
					return err
				}
			}
			if err := ctrl.SetFavoritesOnly(favorites); err != nil {
				return err
			}
			cf := filter.CardFilter{From: from, To: endOfDay(to), Order: filter.CardOrder(order), Tags: tags}
			if err := ctrl.SetCardFilter(cf); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(ctrl.Board(), ctrl.Snapshot()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search title, department and phone in every column")
	cmd.Flags().StringToStringVar(&columnQueries, "column-query", nil, "Search one column: column=text (repeatable)")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite cards")
	cmd.Flags().Var(dateValue{&from}, "from", "Only cards created on or after this day (YYYY-MM-DD)")
	cmd.Flags().Var(dateValue{&to}, "to", "Only cards created on or before this day (YYYY-MM-DD)")
	cmd.Flags().Var(&order, "order", "Sort every column by creation: oldest or newest")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only cards with any of these labels (repeatable)")

	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl, err := app.openBoard(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			srv := httpapi.New(ctrl, app.Cards, app.Logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving board on http://%s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.HTTPAddr, "Listen address")

	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

func runTUI(ctx context.Context, app *App) error {
	ctrl, err := app.openBoard(ctx)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	err = tui.Run(ctx, ctrl, app.Cards)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
