package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/repository"
	"github.com/oklog/ulid/v2"
)

// DeletionPolicy decides what happens to the cards of a deleted column.
type DeletionPolicy struct {
	Mode domain.DeletePolicy
	// Fallback is the preferred destination for reassigned cards. When it is
	// empty, missing, or the column being deleted, the adjacent column is used.
	Fallback string
}

type columnLifecycle struct {
	uow      db.UnitOfWork
	policy   DeletionPolicy
	observer UseCaseObserver
}

func NewColumnLifecycle(uow db.UnitOfWork, policy DeletionPolicy, observers ...UseCaseObserver) ColumnLifecycle {
	if !policy.Mode.Valid() {
		policy.Mode = domain.DeleteReassign
	}
	return &columnLifecycle{
		uow:      uow,
		policy:   policy,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create resolves the picker draft into a new column appended at the end of
// the board. Ids are time-ordered so creation order is recoverable from them.
func (l *columnLifecycle) Create(ctx context.Context, d domain.ColumnDraft) (col *domain.Column, err error) {
	fields := map[string]any{"choice": string(d.TitleChoice)}
	defer track(ctx, l.observer, "create-column", fields)(&err)

	title, err := d.Title()
	if err != nil {
		return nil, err
	}
	icon := strings.TrimSpace(d.Icon)
	if icon == "" {
		icon = domain.DefaultIcon
	}
	col = &domain.Column{
		ID:    newColumnID(d.TitleChoice),
		Title: title,
		Icon:  icon,
	}

	err = l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		list, err := cols.List(ctx)
		if err != nil {
			return err
		}
		col.Order = len(list)
		return cols.Create(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	fields["column_id"] = col.ID
	return col, nil
}

// Delete removes a column. Its cards are handled by the configured policy,
// inside the same transaction as the removal.
func (l *columnLifecycle) Delete(ctx context.Context, id string) (res *domain.ColumnDeletion, err error) {
	fields := map[string]any{"column_id": id, "policy": string(l.policy.Mode)}
	defer track(ctx, l.observer, "delete-column", fields)(&err)

	res = &domain.ColumnDeletion{ColumnID: id, Policy: l.policy.Mode}
	err = l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		cards := repository.NewSQLiteCardRepo(tx)

		list, err := cols.List(ctx)
		if err != nil {
			return err
		}
		ids := columnIDs(list)
		if indexOf(ids, id) < 0 {
			return domain.ColumnNotFound(id)
		}

		n, err := cards.CountByStatus(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if l.policy.Mode == domain.DeleteBlock {
				return fmt.Errorf("deleting column %s: %w (%d cards)", id, domain.ErrColumnNotEmpty, n)
			}
			fallback := l.fallbackFor(ids, id)
			if fallback == "" {
				return domain.Invalid("column", "the last column cannot be deleted while it holds cards")
			}
			moved, err := cards.ReassignStatus(ctx, id, fallback, time.Now().UTC())
			if err != nil {
				return err
			}
			res.FallbackID = fallback
			res.Reassigned = moved
		}
		return removeColumn(ctx, cols, cards, id)
	})
	if err != nil {
		return nil, err
	}
	fields["fallback"] = res.FallbackID
	fields["reassigned"] = res.Reassigned
	return res, nil
}

// fallbackFor picks the configured fallback column, else the neighbour to
// the left, else the one to the right. It returns "" when id is alone.
func (l *columnLifecycle) fallbackFor(ids []string, id string) string {
	if l.policy.Fallback != "" && l.policy.Fallback != id && indexOf(ids, l.policy.Fallback) >= 0 {
		return l.policy.Fallback
	}
	idx := indexOf(ids, id)
	switch {
	case idx > 0:
		return ids[idx-1]
	case idx+1 < len(ids):
		return ids[idx+1]
	default:
		return ""
	}
}

func newColumnID(choice domain.TitleChoice) string {
	prefix := string(choice)
	if choice == "" {
		prefix = string(domain.TitleCustom)
	}
	return prefix + "_" + strings.ToLower(ulid.MustNew(ulid.Now(), rand.Reader).String())
}
