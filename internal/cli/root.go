package cli

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/config"
	"github.com/alexanderramin/pipeline/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Cards     service.CardStore
	Columns   service.ColumnRegistry
	Lifecycle service.ColumnLifecycle
	Import    service.ImportService
	Config    config.Config
	Logger    *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// openBoard starts a board controller for one command. The caller closes it.
func (a *App) openBoard(ctx context.Context) (*board.Controller, error) {
	return board.New(ctx, a.Cards, a.Columns, a.Lifecycle, board.Options{
		StoreTimeout: a.Config.StoreTimeout(),
		LockColumns:  a.Config.LockColumns,
		Logger:       a.Logger,
	})
}

// NewRootCmd creates the top-level "pipeline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Kanban pipeline for customer conversations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newBoardCmd(app),
		newCardCmd(app),
		newColumnCmd(app),
		newImportCmd(app),
		newServeCmd(app),
		newTUICmd(app),
	)

	return root
}
