package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/pipeline/internal/cli"
	"github.com/alexanderramin/pipeline/internal/config"
	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/repository"
	"github.com/alexanderramin/pipeline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if cfg.LogUseCases {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	cardRepo := repository.NewSQLiteCardRepo(database)
	columnRepo := repository.NewSQLiteColumnRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	// Wire services
	columns := service.NewColumnRegistry(columnRepo, uow, observers...)
	if _, err := columns.SeedDefaults(context.Background()); err != nil {
		return fmt.Errorf("seeding columns: %w", err)
	}

	app := &cli.App{
		Cards:   service.NewCardStore(cardRepo, uow, observers...),
		Columns: columns,
		Lifecycle: service.NewColumnLifecycle(uow, service.DeletionPolicy{
			Mode:     cfg.DeletePolicy,
			Fallback: cfg.FallbackColumn,
		}, observers...),
		Import: service.NewImportService(uow, observers...),
		Config: cfg,
		Logger: logger,
	}

	// Detect interactive terminal for the board and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
