// Package filter computes the visible board: which cards each column shows,
// and in what order. Everything here is pure; the same Input always yields
// the same Board.
package filter

import (
	"slices"
	"strings"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// Input is everything the projection depends on.
type Input struct {
	GlobalQuery   string
	ColumnQueries map[string]string
	FavoritesOnly bool
	CardFilter    CardFilter

	Columns []*domain.Column
	// Cards in Card Store list order.
	Cards []*domain.Card
	// LocalOrder holds per-column working sequences of card ids. Cards of the
	// column missing from the sequence follow it in store order.
	LocalOrder map[string][]string
}

// ColumnView is one column of the visible board.
type ColumnView struct {
	Column *domain.Column
	Cards  []*domain.Card
	// Total counts the column's cards before any filter applied.
	Total int
}

// Board is the visible projection. Columns follow registry order.
type Board struct {
	Columns []ColumnView
}

// Column returns the view of the column with the given id.
func (b Board) Column(id string) (ColumnView, bool) {
	for _, v := range b.Columns {
		if v.Column.ID == id {
			return v, true
		}
	}
	return ColumnView{}, false
}

// CardIDs lists the visible card ids of a column, nil for an unknown column.
func (b Board) CardIDs(columnID string) []string {
	v, ok := b.Column(columnID)
	if !ok {
		return nil
	}
	ids := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		ids[i] = c.ID
	}
	return ids
}

// VisibleCount is the number of cards shown across all columns.
func (b Board) VisibleCount() int {
	n := 0
	for _, v := range b.Columns {
		n += len(v.Cards)
	}
	return n
}

// Apply projects in into the visible board. The returned cards alias
// in.Cards.
func Apply(in Input) Board {
	byColumn := make(map[string][]*domain.Card, len(in.Columns))
	for _, c := range in.Cards {
		byColumn[c.Status] = append(byColumn[c.Status], c)
	}

	global := strings.ToLower(in.GlobalQuery)
	board := Board{Columns: make([]ColumnView, 0, len(in.Columns))}
	for _, col := range in.Columns {
		ordered := applyLocalOrder(byColumn[col.ID], in.LocalOrder[col.ID])
		local := strings.ToLower(in.ColumnQueries[col.ID])

		visible := make([]*domain.Card, 0, len(ordered))
		for _, c := range ordered {
			if matchesGlobal(c, global) && matchesColumn(c, local) &&
				(!in.FavoritesOnly || c.Favorite) && in.CardFilter.Admits(c) &&
				admits(col.Display, c) {
				visible = append(visible, c)
			}
		}
		in.CardFilter.sort(visible)
		sortForDisplay(col.Display, visible)

		board.Columns = append(board.Columns, ColumnView{
			Column: col,
			Cards:  visible,
			Total:  len(ordered),
		})
	}
	return board
}

// Visible reports whether card would be shown in column col under in's
// queries and flags. It ignores in.Cards and in.Columns.
func Visible(in Input, col *domain.Column, card *domain.Card) bool {
	if card.Status != col.ID {
		return false
	}
	return matchesGlobal(card, strings.ToLower(in.GlobalQuery)) &&
		matchesColumn(card, strings.ToLower(in.ColumnQueries[col.ID])) &&
		(!in.FavoritesOnly || card.Favorite) &&
		in.CardFilter.Admits(card) &&
		admits(col.Display, card)
}

// Sorted reports whether a column shows its cards by creation time, so its
// working order has no visible effect. A column display mode that sorts
// takes precedence over the card filter order.
func Sorted(f CardFilter, m domain.DisplayMode) bool {
	switch m.(type) {
	case domain.ShowOldest, domain.ShowNewest:
		return true
	}
	return f.Sorts()
}

// matchesGlobal checks the query against each field separately, so a match
// never spans the end of one field and the start of the next.
func matchesGlobal(c *domain.Card, q string) bool {
	if q == "" {
		return true
	}
	return contains(c.Title, q) || contains(c.Department, q) || contains(c.PhoneOrEmpty(), q)
}

func matchesColumn(c *domain.Card, q string) bool {
	if q == "" {
		return true
	}
	return contains(c.Title, q) || contains(c.PhoneOrEmpty(), q)
}

func contains(field, lowerQuery string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), lowerQuery)
}

func admits(m domain.DisplayMode, c *domain.Card) bool {
	switch d := m.(type) {
	case nil, domain.ShowOldest, domain.ShowNewest:
		return true
	case domain.ByLabel:
		return c.HasLabel(d.Label)
	case domain.ByDateRange:
		return d.Contains(c.CreatedAt)
	default:
		return true
	}
}

func sortForDisplay(m domain.DisplayMode, cards []*domain.Card) {
	switch m.(type) {
	case domain.ShowOldest:
		slices.SortStableFunc(cards, func(a, b *domain.Card) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case domain.ShowNewest:
		slices.SortStableFunc(cards, func(a, b *domain.Card) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

func applyLocalOrder(cards []*domain.Card, seq []string) []*domain.Card {
	if len(seq) == 0 {
		return cards
	}
	byID := make(map[string]*domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	out := make([]*domain.Card, 0, len(cards))
	placed := make(map[string]bool, len(seq))
	for _, id := range seq {
		if c, ok := byID[id]; ok && !placed[id] {
			out = append(out, c)
			placed[id] = true
		}
	}
	for _, c := range cards {
		if !placed[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
