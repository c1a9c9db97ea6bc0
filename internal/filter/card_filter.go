package filter

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// CardOrder sorts every column of the board by creation time.
type CardOrder string

const (
	OrderNone   CardOrder = ""
	OrderOldest CardOrder = "oldest"
	OrderNewest CardOrder = "newest"
)

// ParseCardOrder accepts "", "oldest" and "newest".
func ParseCardOrder(s string) (CardOrder, error) {
	switch o := CardOrder(s); o {
	case OrderNone, OrderOldest, OrderNewest:
		return o, nil
	default:
		return OrderNone, domain.Invalid("order", fmt.Sprintf("unknown order %q", s))
	}
}

// CardFilter narrows and orders all columns at once. The zero value admits
// every card and leaves order alone.
type CardFilter struct {
	// From and To bound the creation time, inclusive. Nil is open.
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
	Order CardOrder  `json:"order,omitempty"`
	// Tags admits cards carrying at least one of them.
	Tags []string `json:"tags,omitempty"`
}

func (f CardFilter) Validate() error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return domain.Invalid("date range", "must start before it ends")
	}
	if _, err := ParseCardOrder(string(f.Order)); err != nil {
		return err
	}
	return nil
}

func (f CardFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Order == OrderNone && len(f.Tags) == 0
}

// Admits reports whether c passes the date range and tag parts of f.
func (f CardFilter) Admits(c *domain.Card) bool {
	if !(domain.ByDateRange{From: f.From, To: f.To}).Contains(c.CreatedAt) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	return slices.ContainsFunc(f.Tags, c.HasLabel)
}

// Sorts reports whether f imposes an order on every column.
func (f CardFilter) Sorts() bool {
	return f.Order != OrderNone
}

// Clone returns a copy sharing nothing with f.
func (f CardFilter) Clone() CardFilter {
	out := f
	if f.From != nil {
		t := *f.From
		out.From = &t
	}
	if f.To != nil {
		t := *f.To
		out.To = &t
	}
	out.Tags = slices.Clone(f.Tags)
	return out
}

func (f CardFilter) sort(cards []*domain.Card) {
	switch f.Order {
	case OrderOldest:
		slices.SortStableFunc(cards, func(a, b *domain.Card) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case OrderNewest:
		slices.SortStableFunc(cards, func(a, b *domain.Card) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}
