package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/repository"
)

type columnRegistry struct {
	columns  repository.ColumnRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewColumnRegistry(columns repository.ColumnRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ColumnRegistry {
	return &columnRegistry{
		columns:  columns,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (r *columnRegistry) List(ctx context.Context) ([]*domain.Column, error) {
	return r.columns.List(ctx)
}

func (r *columnRegistry) Get(ctx context.Context, id string) (*domain.Column, error) {
	return r.columns.GetByID(ctx, id)
}

// Insert places c at index at, clamped to the current bounds, and shifts
// the columns after it one slot right.
func (r *columnRegistry) Insert(ctx context.Context, c *domain.Column, at int) (err error) {
	defer track(ctx, r.observer, "insert-column", map[string]any{"column_id": c.ID, "at": at})(&err)

	if err := c.Validate(); err != nil {
		return err
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		list, err := cols.List(ctx)
		if err != nil {
			return err
		}
		ids := columnIDs(list)
		for _, id := range ids {
			if id == c.ID {
				return domain.Invalid("id", fmt.Sprintf("column %s already exists", c.ID))
			}
		}
		at = min(max(at, 0), len(ids))

		// The new row lands on the first free slot, then the whole order is rewritten.
		c.Order = len(ids)
		if err := cols.Create(ctx, c); err != nil {
			return err
		}
		if err := cols.SetOrder(ctx, insertAt(ids, at, c.ID)); err != nil {
			return err
		}
		c.Order = at
		return nil
	})
}

// Remove deletes a column and closes the gap in the order. It fails with
// domain.ErrColumnNotEmpty while cards still point at the column.
func (r *columnRegistry) Remove(ctx context.Context, id string) (err error) {
	defer track(ctx, r.observer, "remove-column", map[string]any{"column_id": id})(&err)

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return removeColumn(ctx, repository.NewSQLiteColumnRepo(tx), repository.NewSQLiteCardRepo(tx), id)
	})
}

// Reorder applies a full permutation of the column ids. Anything else fails
// with domain.ErrInvalidPermutation before a single row is touched.
func (r *columnRegistry) Reorder(ctx context.Context, ids []string) (err error) {
	defer track(ctx, r.observer, "reorder-columns", map[string]any{"count": len(ids)})(&err)

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		list, err := cols.List(ctx)
		if err != nil {
			return err
		}
		if err := checkPermutation(columnIDs(list), ids); err != nil {
			return err
		}
		return cols.SetOrder(ctx, ids)
	})
}

func (r *columnRegistry) SetDisplay(ctx context.Context, id string, m domain.DisplayMode) (col *domain.Column, err error) {
	defer track(ctx, r.observer, "set-column-display", map[string]any{"column_id": id, "mode": string(domain.KindOf(m))})(&err)

	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		current, err := cols.GetByID(ctx, id)
		if err != nil {
			return err
		}
		current.Display = m
		if err := cols.Update(ctx, current); err != nil {
			return err
		}
		col = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (r *columnRegistry) SeedDefaults(ctx context.Context) (seeded bool, err error) {
	defer track(ctx, r.observer, "seed-columns", nil)(&err)

	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		list, err := cols.List(ctx)
		if err != nil {
			return err
		}
		if len(list) > 0 {
			return nil
		}
		for _, c := range domain.DefaultColumns() {
			if err := cols.Create(ctx, c); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

// checkPermutation reports whether next holds exactly the ids of current.
func checkPermutation(current, next []string) error {
	if len(next) != len(current) {
		return fmt.Errorf("%w: got %d ids, board has %d columns", domain.ErrInvalidPermutation, len(next), len(current))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(next))
	for _, id := range next {
		if !known[id] {
			return fmt.Errorf("%w: unknown column %q", domain.ErrInvalidPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: column %q listed twice", domain.ErrInvalidPermutation, id)
		}
		seen[id] = true
	}
	return nil
}

func removeColumn(ctx context.Context, cols repository.ColumnRepo, cards repository.CardRepo, id string) error {
	list, err := cols.List(ctx)
	if err != nil {
		return err
	}
	ids := columnIDs(list)
	idx := indexOf(ids, id)
	if idx < 0 {
		return domain.ColumnNotFound(id)
	}
	n, err := cards.CountByStatus(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("removing column %s: %w (%d cards)", id, domain.ErrColumnNotEmpty, n)
	}
	if err := cols.Delete(ctx, id); err != nil {
		return err
	}
	return cols.SetOrder(ctx, append(ids[:idx:idx], ids[idx+1:]...))
}

func columnIDs(cols []*domain.Column) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []string, at int, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, id)
	return append(out, ids[at:]...)
}
