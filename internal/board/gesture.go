package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
)

// OnDragStart opens a gesture. Only one gesture runs at a time; a second
// start is rejected, not queued.
func (c *Controller) OnDragStart(d DragStart) error {
	if err := d.validate(); err != nil {
		return err
	}
	return c.exec(func() error {
		if c.w.drag != nil {
			return ErrDragInProgress
		}
		if d.Kind == DragColumn && c.w.locked {
			return ErrColumnsLocked
		}
		c.w.drag = &d
		return nil
	})
}

// OnDragEnd closes the open gesture and applies the drop. The visible board
// changes before OnDragEnd returns; the ticket reports whether the store
// confirmed it. The gesture ends even when the drop is rejected.
func (c *Controller) OnDragEnd(ev DragEvent) (*Ticket, error) {
	var ticket *Ticket
	err := c.exec(func() error {
		drag := c.w.drag
		if drag == nil {
			return fmt.Errorf("%w: no drag in progress", ErrStaleGesture)
		}
		c.w.drag = nil
		if ev.Kind == "" {
			ev.Kind = drag.Kind
		}
		if ev.Kind != drag.Kind {
			return fmt.Errorf("%w: %s drag ended as a %s drop", ErrStaleGesture, drag.Kind, ev.Kind)
		}
		if ev.DraggableID == "" {
			ev.DraggableID = drag.DraggableID
		}
		if drag.DraggableID != "" && ev.DraggableID != drag.DraggableID {
			return fmt.Errorf("%w: dragged %s but dropped %s", ErrStaleGesture, drag.DraggableID, ev.DraggableID)
		}
		if ev.Canceled {
			ticket = settledTicket(OutcomeCanceled)
			return nil
		}

		var err error
		if ev.Kind == DragColumn {
			ticket, err = c.dropColumn(ev)
		} else {
			ticket, err = c.dropCard(ev)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// dropCard resolves visible indices to working positions, applies the move
// optimistically and, for a cross-column move, persists the new status.
func (c *Controller) dropCard(ev DragEvent) (*Ticket, error) {
	w := &c.w
	src, dst := ev.SourceColumn, ev.DestColumn
	if dst == "" {
		dst = src
	}
	for _, col := range []string{src, dst} {
		if w.columnIndex(col) < 0 {
			return nil, fmt.Errorf("%w: unknown column %q", ErrStaleGesture, col)
		}
		if w.deleting[col] {
			return nil, fmt.Errorf("column %s: %w", col, ErrColumnBusy)
		}
	}

	board := w.project()
	srcVisible := board.CardIDs(src)
	id := ev.DraggableID
	if id == "" {
		if ev.SourceIndex < 0 || ev.SourceIndex >= len(srcVisible) {
			return nil, fmt.Errorf("%w: no visible card at %s[%d]", ErrStaleGesture, src, ev.SourceIndex)
		}
		id = srcVisible[ev.SourceIndex]
	}
	srcPos := slices.Index(srcVisible, id)
	if srcPos < 0 {
		return nil, fmt.Errorf("%w: card %s is not visible in %s", ErrStaleGesture, id, src)
	}
	if src == dst && srcPos == ev.DestIndex {
		return settledTicket(OutcomeNoop), nil
	}
	// A column sorted by creation time would hide the new position.
	if src == dst && filter.Sorted(w.cardFilter, w.columns[w.columnIndex(src)].Display) {
		return settledTicket(OutcomeNoop), nil
	}
	if _, ok := w.txns[id]; ok {
		return nil, fmt.Errorf("moving card %s: %w", id, ErrMovePending)
	}

	destVisible := slices.DeleteFunc(board.CardIDs(dst), func(v string) bool { return v == id })
	fromIndex := w.removeFromSeq(src, id)
	toIndex := w.insertIntoSeq(dst, id, c.anchor(dst, destVisible, ev.DestIndex))

	if src == dst {
		return settledTicket(OutcomeReordered), nil
	}

	w.cards[id].Status = dst
	txn := &Txn{
		CardID:    id,
		From:      src,
		To:        dst,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
		State:     TxnPending,
		StartedAt: time.Now().UTC(),
		ticket:    c.track(newTicket()),
	}
	w.txns[id] = txn

	c.async(func(ctx context.Context) func() {
		updated, err := c.cards.Update(ctx, id, domain.StatusPatch(dst))
		return func() { c.settleMove(txn, updated, err) }
	})
	return txn.ticket, nil
}

// anchor maps a visible destination index to a working position: before the
// card shown at that index, or right after the last visible card.
func (c *Controller) anchor(col string, visible []string, idx int) int {
	seq := c.w.seq[col]
	switch {
	case len(visible) == 0:
		return len(seq)
	case idx <= 0:
		return slices.Index(seq, visible[0])
	case idx < len(visible):
		return slices.Index(seq, visible[idx])
	default:
		return slices.Index(seq, visible[len(visible)-1]) + 1
	}
}

func (c *Controller) settleMove(txn *Txn, updated *domain.Card, err error) {
	w := &c.w
	delete(w.txns, txn.CardID)
	card := w.cards[txn.CardID]

	if err == nil {
		txn.State = TxnCommitted
		if card != nil && updated != nil {
			fresh := updated.Clone()
			if fresh.Status != card.Status {
				w.relocate(txn.CardID, fresh.Status)
			}
			w.cards[txn.CardID] = fresh
		}
		w.remember(*txn)
		c.notify(Notification{
			Kind:     NotifyCardMoved,
			CardID:   txn.CardID,
			ColumnID: txn.To,
			Message:  fmt.Sprintf("card moved to %s", c.columnTitle(txn.To)),
		})
		c.settle(txn.ticket, OutcomeCommitted, nil)
		return
	}

	txn.State = TxnRolledBack
	txn.Err = err
	if card != nil && card.Status == txn.To {
		w.removeFromSeq(txn.To, txn.CardID)
		card.Status = txn.From
		w.insertIntoSeq(txn.From, txn.CardID, txn.FromIndex)
	}
	w.remember(*txn)
	c.notify(Notification{
		Kind:     NotifyMoveRolledBack,
		CardID:   txn.CardID,
		ColumnID: txn.From,
		Message:  fmt.Sprintf("move to %s failed, card returned to %s", c.columnTitle(txn.To), c.columnTitle(txn.From)),
		Err:      err,
	})
	c.settle(txn.ticket, OutcomeRolledBack, err)

	if errors.Is(err, domain.ErrNotFound) {
		c.reloadAsync()
	}
}

// dropColumn splices the column order at once and persists it in the
// background. A rejected reorder puts the previous order back.
func (c *Controller) dropColumn(ev DragEvent) (*Ticket, error) {
	w := &c.w
	if w.locked {
		return nil, ErrColumnsLocked
	}
	// One reorder at a time, so the store sees them in drop order.
	if w.columnOps > 0 || w.columnReorders > 0 {
		return nil, fmt.Errorf("reordering columns: %w", ErrColumnBusy)
	}
	n := len(w.columns)
	if ev.SourceIndex < 0 || ev.SourceIndex >= n {
		return nil, fmt.Errorf("%w: no column at index %d", ErrStaleGesture, ev.SourceIndex)
	}
	if ev.DraggableID != "" && w.columns[ev.SourceIndex].ID != ev.DraggableID {
		return nil, fmt.Errorf("%w: column %s is not at index %d", ErrStaleGesture, ev.DraggableID, ev.SourceIndex)
	}
	dest := min(max(ev.DestIndex, 0), n-1)
	if dest == ev.SourceIndex {
		return settledTicket(OutcomeNoop), nil
	}

	prev := w.columnIDs()
	moved := w.columns[ev.SourceIndex]
	w.columns = slices.Delete(w.columns, ev.SourceIndex, ev.SourceIndex+1)
	w.columns = slices.Insert(w.columns, dest, moved)
	w.renumber()
	next := w.columnIDs()
	w.columnReorders++

	ticket := c.track(newTicket())
	c.async(func(ctx context.Context) func() {
		err := c.columns.Reorder(ctx, next)
		return func() { c.settleReorder(moved.ID, prev, next, ticket, err) }
	})
	return ticket, nil
}

func (c *Controller) settleReorder(columnID string, prev, next []string, ticket *Ticket, err error) {
	w := &c.w
	w.columnReorders--
	if err == nil {
		c.notify(Notification{
			Kind:     NotifyColumnsReordered,
			ColumnID: columnID,
			Message:  "column order saved",
		})
		c.settle(ticket, OutcomeCommitted, nil)
		return
	}

	// A reload may have replaced the order meanwhile.
	if slices.Equal(w.columnIDs(), next) {
		w.setColumnOrder(prev)
	}
	c.notify(Notification{
		Kind:     NotifyColumnOrderReverted,
		ColumnID: columnID,
		Message:  "column order could not be saved and was restored",
		Err:      err,
	})
	c.settle(ticket, OutcomeRolledBack, err)

	if errors.Is(err, domain.ErrInvalidPermutation) || errors.Is(err, domain.ErrNotFound) {
		c.reloadAsync()
	}
}

func (c *Controller) columnTitle(id string) string {
	if i := c.w.columnIndex(id); i >= 0 {
		return c.w.columns[i].Title
	}
	return id
}
