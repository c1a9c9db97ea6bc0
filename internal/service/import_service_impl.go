package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/importer"
	"github.com/alexanderramin/pipeline/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportBoard(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadBoardImport(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportBoardFromSchema(ctx context.Context, schema *importer.BoardImport) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

// importSchema validates against the live column list and writes columns
// then cards. Nothing is kept when any write fails.
func (s *importService) importSchema(ctx context.Context, schema *importer.BoardImport) (res *ImportResult, err error) {
	fields := map[string]any{"columns": len(schema.Columns), "cards": len(schema.Cards)}
	defer track(ctx, s.observer, "import-board", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		existing, err := cols.List(ctx)
		if err != nil {
			return err
		}
		if errs := importer.ValidateBoardImport(schema, columnIDs(existing)); len(errs) > 0 {
			return formatValidationErrors(errs)
		}

		generated := importer.Convert(schema, time.Now().UTC())
		for i, c := range generated.Columns {
			c.Order = len(existing) + i
			if err := cols.Create(ctx, c); err != nil {
				return fmt.Errorf("creating column %q: %w", c.Title, err)
			}
		}
		cards := repository.NewSQLiteCardRepo(tx)
		for _, c := range generated.Cards {
			if err := cards.Create(ctx, c); err != nil {
				return fmt.Errorf("creating card %q: %w", c.Title, err)
			}
		}

		res = &ImportResult{ColumnCount: len(generated.Columns), CardCount: len(generated.Cards)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import has %d problems:", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, b.String())
}
