package board

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// CreateColumn creates a column through the lifecycle manager and appends
// it to the working board.
func (c *Controller) CreateColumn(ctx context.Context, d domain.ColumnDraft) (*domain.Column, error) {
	err := c.exec(func() error {
		if c.w.columnReorders > 0 {
			return fmt.Errorf("creating column: %w", ErrColumnBusy)
		}
		c.w.columnOps++
		return nil
	})
	if err != nil {
		return nil, err
	}

	col, createErr := c.lifecycle.Create(ctx, d)
	_ = c.exec(func() error {
		c.w.columnOps--
		if createErr != nil {
			c.notify(Notification{
				Kind:    NotifyColumnFailed,
				Message: "column could not be created",
				Err:     createErr,
			})
			return nil
		}
		if c.w.columnIndex(col.ID) < 0 {
			c.w.columns = append(c.w.columns, col.Clone())
			c.w.renumber()
			c.w.seq[col.ID] = []string{}
		}
		c.notify(Notification{
			Kind:     NotifyColumnCreated,
			ColumnID: col.ID,
			Message:  fmt.Sprintf("column %s created", col.Title),
		})
		return nil
	})
	if createErr != nil {
		return nil, createErr
	}
	return col, nil
}

// DeleteColumn deletes a column through the lifecycle manager. Deletion is
// refused while a card move into or out of the column is pending.
func (c *Controller) DeleteColumn(ctx context.Context, id string) (*domain.ColumnDeletion, error) {
	err := c.exec(func() error {
		w := &c.w
		if w.columnIndex(id) < 0 {
			return domain.ColumnNotFound(id)
		}
		if w.columnReorders > 0 || w.deleting[id] {
			return fmt.Errorf("deleting column %s: %w", id, ErrColumnBusy)
		}
		if w.touches(id) {
			return fmt.Errorf("deleting column %s: %w", id, ErrMovePending)
		}
		w.deleting[id] = true
		w.columnOps++
		return nil
	})
	if err != nil {
		return nil, err
	}

	res, deleteErr := c.lifecycle.Delete(ctx, id)
	_ = c.exec(func() error {
		w := &c.w
		delete(w.deleting, id)
		w.columnOps--
		if deleteErr != nil {
			c.notify(Notification{
				Kind:     NotifyColumnFailed,
				ColumnID: id,
				Message:  fmt.Sprintf("column %s could not be deleted", c.columnTitle(id)),
				Err:      deleteErr,
			})
			return nil
		}
		title := c.columnTitle(id)
		stranded := append([]string(nil), w.seq[id]...)
		switch {
		case res.FallbackID != "":
			for _, cardID := range stranded {
				w.relocate(cardID, res.FallbackID)
			}
		case len(stranded) > 0:
			// The store saw no cards to move; the working copy is behind.
			c.reloadAsync()
		}
		delete(w.seq, id)
		delete(w.columnQueries, id)
		if i := w.columnIndex(id); i >= 0 {
			w.columns = append(w.columns[:i], w.columns[i+1:]...)
			w.renumber()
		}
		msg := fmt.Sprintf("column %s deleted", title)
		if res.Reassigned > 0 {
			msg = fmt.Sprintf("column %s deleted, %d cards moved to %s", title, res.Reassigned, c.columnTitle(res.FallbackID))
		}
		c.notify(Notification{Kind: NotifyColumnDeleted, ColumnID: id, Message: msg})
		return nil
	})
	if deleteErr != nil {
		return nil, deleteErr
	}
	return res, nil
}

// SetColumnDisplay stores a column's display mode and applies it to the
// visible board.
func (c *Controller) SetColumnDisplay(ctx context.Context, id string, m domain.DisplayMode) (*domain.Column, error) {
	col, err := c.columns.SetDisplay(ctx, id, m)
	if err != nil {
		return nil, err
	}
	err = c.exec(func() error {
		if i := c.w.columnIndex(id); i >= 0 {
			c.w.columns[i].Display = col.Display
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// SetColumnsLocked toggles the column lock. A locked board rejects column
// drags; card drags are unaffected.
func (c *Controller) SetColumnsLocked(locked bool) error {
	return c.exec(func() error {
		c.w.locked = locked
		return nil
	})
}
