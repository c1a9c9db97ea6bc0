package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/sahilm/fuzzy"
)

// resolveCard finds a card by:
//   - exact ID
//   - unique ID prefix
//   - exact title (case-insensitive)
//   - fuzzy title match, when one match clearly outranks the rest
func resolveCard(ctx context.Context, app *App, ref string) (*domain.Card, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("card reference is required")
	}
	cards, err := app.Cards.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range cards {
		if c.ID == ref {
			return c, nil
		}
	}
	var prefixed []*domain.Card
	for _, c := range cards {
		if strings.HasPrefix(c.ID, ref) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	if len(prefixed) > 1 {
		return nil, fmt.Errorf("card ID prefix %q is ambiguous (%d matches)", ref, len(prefixed))
	}

	titles := make([]string, len(cards))
	for i, c := range cards {
		titles[i] = c.Title
	}
	i, err := pick(ref, titles, "card")
	if err != nil {
		return nil, err
	}
	return cards[i], nil
}

// resolveColumn finds a column by ID, title, or fuzzy title.
func resolveColumn(ctx context.Context, app *App, ref string) (*domain.Column, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("column reference is required")
	}
	cols, err := app.Columns.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if c.ID == ref {
			return c, nil
		}
	}
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	i, err := pick(ref, titles, "column")
	if err != nil {
		return nil, err
	}
	return cols[i], nil
}

// pick returns the index of the name ref designates. Exact matches win over
// fuzzy ones; a fuzzy result must beat the runner-up to count.
func pick(ref string, names []string, entity string) (int, error) {
	exact := -1
	for i, n := range names {
		if strings.EqualFold(n, ref) {
			if exact >= 0 {
				return -1, fmt.Errorf("%s %q is ambiguous: several share that title", entity, ref)
			}
			exact = i
		}
	}
	if exact >= 0 {
		return exact, nil
	}

	matches := fuzzy.Find(ref, names)
	switch {
	case len(matches) == 0:
		return -1, fmt.Errorf("%s not found: %q", entity, ref)
	case len(matches) == 1 || matches[0].Score > matches[1].Score:
		return matches[0].Index, nil
	default:
		return -1, fmt.Errorf("%s %q is ambiguous: %s", entity, ref, candidateList(matches))
	}
}

func candidateList(matches fuzzy.Matches) string {
	n := min(len(matches), 3)
	names := make([]string, n)
	for i := range n {
		names[i] = fmt.Sprintf("%q", matches[i].Str)
	}
	out := strings.Join(names, ", ")
	if len(matches) > n {
		out += fmt.Sprintf(" and %d more", len(matches)-n)
	}
	return out
}
