package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
)

func (c *Controller) SetGlobalQuery(q string) error {
	return c.exec(func() error {
		c.w.globalQuery = q
		return nil
	})
}

// SetColumnQuery sets the search of one column. An empty query clears it.
func (c *Controller) SetColumnQuery(columnID, q string) error {
	return c.exec(func() error {
		if c.w.columnIndex(columnID) < 0 {
			return domain.ColumnNotFound(columnID)
		}
		if q == "" {
			delete(c.w.columnQueries, columnID)
		} else {
			c.w.columnQueries[columnID] = q
		}
		return nil
	})
}

func (c *Controller) SetFavoritesOnly(on bool) error {
	return c.exec(func() error {
		c.w.favoritesOnly = on
		return nil
	})
}

// SetCardFilter narrows and orders every column. The zero filter clears it.
func (c *Controller) SetCardFilter(f filter.CardFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f = f.Clone()
	return c.exec(func() error {
		c.w.cardFilter = f
		return nil
	})
}

// Reload replaces the working copy with store state. Local card order is
// discarded; pending moves stay applied until the store answers.
func (c *Controller) Reload(ctx context.Context) error {
	cols, cards, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	return c.exec(func() error {
		c.apply(cols, cards)
		return nil
	})
}

func (c *Controller) fetch(ctx context.Context) ([]*domain.Column, []*domain.Card, error) {
	cols, err := c.columns.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing columns: %w", err)
	}
	cards, err := c.cards.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing cards: %w", err)
	}
	return cols, cards, nil
}

func (c *Controller) reloadAsync() {
	c.async(func(ctx context.Context) func() {
		cols, cards, err := c.fetch(ctx)
		return func() {
			if err != nil {
				c.notify(Notification{Kind: NotifyReloadFailed, Message: "board could not be refreshed", Err: err})
				return
			}
			c.apply(cols, cards)
			c.notify(Notification{Kind: NotifyReloaded, Message: "board refreshed"})
		}
	})
}

func (c *Controller) apply(cols []*domain.Column, cards []*domain.Card) {
	w := &c.w
	current := w.columnIDs()
	w.load(cols, cards)

	// The store may still hold the old order while a reorder is in flight.
	if w.columnReorders > 0 {
		loaded := w.columnIDs()
		if len(loaded) == len(current) && containsAll(loaded, current) {
			w.setColumnOrder(current)
		}
	}
	for _, t := range w.txns {
		card := w.cards[t.CardID]
		if card == nil || card.Status == t.To || w.columnIndex(t.To) < 0 {
			continue
		}
		w.removeFromSeq(card.Status, t.CardID)
		card.Status = t.To
		w.insertIntoSeq(t.To, t.CardID, t.ToIndex)
	}
}

// CardChanged folds a card written through the store outside of a gesture
// into the working copy. A card with a pending move keeps its working
// status.
func (c *Controller) CardChanged(card *domain.Card) error {
	fresh := card.Clone()
	return c.exec(func() error {
		w := &c.w
		existing := w.cards[fresh.ID]
		if existing == nil {
			w.cards[fresh.ID] = fresh
			w.storeOrder = append(w.storeOrder, fresh.ID)
			if _, ok := w.seq[fresh.Status]; ok {
				w.seq[fresh.Status] = append(w.seq[fresh.Status], fresh.ID)
			}
			return nil
		}
		status := fresh.Status
		fresh.Status = existing.Status
		w.cards[fresh.ID] = fresh
		if _, pending := w.txns[fresh.ID]; !pending && status != existing.Status {
			w.relocate(fresh.ID, status)
		}
		return nil
	})
}

// CardRemoved drops a deleted card from the working copy.
func (c *Controller) CardRemoved(id string) error {
	return c.exec(func() error {
		w := &c.w
		card := w.cards[id]
		if card == nil {
			return nil
		}
		w.removeFromSeq(card.Status, id)
		delete(w.cards, id)
		w.storeOrder = slices.DeleteFunc(w.storeOrder, func(v string) bool { return v == id })
		return nil
	})
}

func containsAll(set, ids []string) bool {
	for _, id := range ids {
		if !slices.Contains(set, id) {
			return false
		}
	}
	return true
}
