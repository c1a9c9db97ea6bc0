package board

import (
	"slices"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
)

// working is the controller's optimistic copy of the board. Only the
// controller loop touches it.
type working struct {
	columns []*domain.Column
	cards   map[string]*domain.Card
	// storeOrder is the Card Store list order.
	storeOrder []string
	// seq holds every card of a column in working order, filters ignored.
	seq map[string][]string

	globalQuery   string
	columnQueries map[string]string
	favoritesOnly bool
	cardFilter    filter.CardFilter
	locked        bool

	drag           *DragStart
	txns           map[string]*Txn
	settled        []Txn
	columnReorders int
	columnOps      int
	deleting       map[string]bool
	tickets        map[*Ticket]struct{}
}

const settledHistory = 32

func newWorking() working {
	return working{
		cards:         map[string]*domain.Card{},
		seq:           map[string][]string{},
		columnQueries: map[string]string{},
		txns:          map[string]*Txn{},
		deleting:      map[string]bool{},
		tickets:       map[*Ticket]struct{}{},
	}
}

// load replaces the board with store state. Local card order is dropped.
func (w *working) load(cols []*domain.Column, cards []*domain.Card) {
	w.columns = make([]*domain.Column, len(cols))
	for i, c := range cols {
		w.columns[i] = c.Clone()
	}
	w.cards = make(map[string]*domain.Card, len(cards))
	w.storeOrder = make([]string, 0, len(cards))
	w.seq = make(map[string][]string, len(cols))
	for _, c := range cols {
		w.seq[c.ID] = []string{}
	}
	for _, c := range cards {
		w.cards[c.ID] = c.Clone()
		w.storeOrder = append(w.storeOrder, c.ID)
		if _, ok := w.seq[c.Status]; ok {
			w.seq[c.Status] = append(w.seq[c.Status], c.ID)
		}
	}
	for id := range w.columnQueries {
		if w.columnIndex(id) < 0 {
			delete(w.columnQueries, id)
		}
	}
}

func (w *working) state() State {
	switch {
	case w.drag != nil && w.drag.Kind == DragColumn:
		return StateDraggingColumn
	case w.drag != nil:
		return StateDraggingCard
	case w.pending() > 0:
		return StateReconciling
	default:
		return StateIdle
	}
}

func (w *working) pending() int {
	return len(w.txns) + w.columnReorders
}

func (w *working) columnIDs() []string {
	ids := make([]string, len(w.columns))
	for i, c := range w.columns {
		ids[i] = c.ID
	}
	return ids
}

func (w *working) columnIndex(id string) int {
	for i, c := range w.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// setColumnOrder rearranges the working columns to follow ids. Ids the board
// does not know are skipped; columns missing from ids keep their relative
// order at the end.
func (w *working) setColumnOrder(ids []string) {
	byID := make(map[string]*domain.Column, len(w.columns))
	for _, c := range w.columns {
		byID[c.ID] = c
	}
	out := make([]*domain.Column, 0, len(w.columns))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	for _, c := range w.columns {
		if _, ok := byID[c.ID]; ok {
			out = append(out, c)
		}
	}
	w.columns = out
	w.renumber()
}

func (w *working) renumber() {
	for i, c := range w.columns {
		c.Order = i
	}
}

// removeFromSeq takes id out of a column sequence and returns where it was,
// or -1.
func (w *working) removeFromSeq(col, id string) int {
	seq := w.seq[col]
	i := slices.Index(seq, id)
	if i < 0 {
		return -1
	}
	w.seq[col] = slices.Delete(seq, i, i+1)
	return i
}

func (w *working) insertIntoSeq(col, id string, at int) int {
	seq := w.seq[col]
	at = min(max(at, 0), len(seq))
	w.seq[col] = slices.Insert(seq, at, id)
	return at
}

// relocate moves a card between columns outside of a gesture, appending it
// to the destination.
func (w *working) relocate(id, to string) {
	card := w.cards[id]
	if card == nil {
		return
	}
	w.removeFromSeq(card.Status, id)
	card.Status = to
	if _, ok := w.seq[to]; ok {
		w.seq[to] = append(w.seq[to], id)
	}
}

// touches reports whether a pending move goes in or out of col.
func (w *working) touches(col string) bool {
	for _, t := range w.txns {
		if t.From == col || t.To == col {
			return true
		}
	}
	return false
}

func (w *working) remember(t Txn) {
	w.settled = append(w.settled, t)
	if len(w.settled) > settledHistory {
		w.settled = slices.Delete(w.settled, 0, len(w.settled)-settledHistory)
	}
}

func (w *working) filterInput(cols []*domain.Column, cards []*domain.Card) filter.Input {
	order := make(map[string][]string, len(w.seq))
	for col, ids := range w.seq {
		order[col] = slices.Clone(ids)
	}
	queries := make(map[string]string, len(w.columnQueries))
	for col, q := range w.columnQueries {
		queries[col] = q
	}
	return filter.Input{
		GlobalQuery:   w.globalQuery,
		ColumnQueries: queries,
		FavoritesOnly: w.favoritesOnly,
		CardFilter:    w.cardFilter.Clone(),
		Columns:       cols,
		Cards:         cards,
		LocalOrder:    order,
	}
}

// project computes the visible board over the live working copy. The result
// aliases working state and must not leave the controller loop.
func (w *working) project() filter.Board {
	cards := make([]*domain.Card, 0, len(w.storeOrder))
	for _, id := range w.storeOrder {
		if c := w.cards[id]; c != nil {
			cards = append(cards, c)
		}
	}
	return filter.Apply(w.filterInput(w.columns, cards))
}

// publishable returns deep copies of the working copy for readers.
func (w *working) publishable() (filter.Board, Snapshot) {
	cols := make([]*domain.Column, len(w.columns))
	for i, c := range w.columns {
		cols[i] = c.Clone()
	}
	cards := make([]*domain.Card, 0, len(w.storeOrder))
	for _, id := range w.storeOrder {
		if c := w.cards[id]; c != nil {
			cards = append(cards, c.Clone())
		}
	}
	in := w.filterInput(cols, cards)
	txns := make([]Txn, 0, len(w.txns)+len(w.settled))
	txns = append(txns, w.settled...)
	for _, t := range w.txns {
		txns = append(txns, *t)
	}
	slices.SortStableFunc(txns, func(a, b Txn) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	for i := range txns {
		txns[i].ticket = nil
	}
	snap := Snapshot{
		State:         w.state(),
		Pending:       w.pending(),
		Columns:       cols,
		Cards:         cards,
		Sequences:     in.LocalOrder,
		Txns:          txns,
		GlobalQuery:   w.globalQuery,
		ColumnQueries: in.ColumnQueries,
		FavoritesOnly: w.favoritesOnly,
		CardFilter:    in.CardFilter,
		ColumnsLocked: w.locked,
	}
	return filter.Apply(in), snap
}
