package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/charmbracelet/lipgloss"
)

const boardColumnWidth = 30

var boardColumnStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(0, 1).
	Width(boardColumnWidth)

// FormatBoard renders the visible board with its columns side by side.
func FormatBoard(b filter.Board, snap board.Snapshot) string {
	var out strings.Builder
	out.WriteString(Header("Board"))
	out.WriteString("\n")
	if line := boardFilters(snap); line != "" {
		out.WriteString(line + "\n")
	}
	if snap.Pending > 0 {
		out.WriteString(StyleYellow.Render(fmt.Sprintf("%d moves awaiting the store", snap.Pending)) + "\n")
	}
	if len(b.Columns) == 0 {
		out.WriteString(Dim("No columns.") + "\n")
		return out.String()
	}

	boxes := make([]string, len(b.Columns))
	for i, v := range b.Columns {
		boxes[i] = boardColumnStyle.Render(FormatColumnView(v, snap.ColumnQueries[v.Column.ID]))
	}
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	out.WriteString("\n")
	return out.String()
}

// FormatColumnView renders one column's header and visible cards.
func FormatColumnView(v filter.ColumnView, query string) string {
	var b strings.Builder
	count := fmt.Sprintf("%d", len(v.Cards))
	if len(v.Cards) != v.Total {
		count = fmt.Sprintf("%d/%d", len(v.Cards), v.Total)
	}
	b.WriteString(StyleHeader.Render(v.Column.Icon+" "+v.Column.Title) + " " + Dim(count))
	if v.Column.Display != nil {
		b.WriteString("\n" + Dim(domain.DescribeDisplay(v.Column.Display)))
	}
	if query != "" {
		b.WriteString("\n" + StyleBlue.Render("/ "+query))
	}
	if len(v.Cards) == 0 {
		b.WriteString("\n" + Dim("(empty)"))
		return b.String()
	}
	for _, c := range v.Cards {
		b.WriteString("\n" + Favorite(c.Favorite) + " " + StyleFg.Render(Truncate(c.Title, boardColumnWidth-4)))
		b.WriteString("\n  " + Dim(Truncate(cardSubtitle(c), boardColumnWidth-4)))
	}
	return b.String()
}

func describeCardFilter(f filter.CardFilter) string {
	var parts []string
	if f.From != nil || f.To != nil {
		parts = append(parts, fmt.Sprintf("created %s..%s", day(f.From), day(f.To)))
	}
	if f.Order != filter.OrderNone {
		parts = append(parts, string(f.Order)+" first")
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags "+strings.Join(f.Tags, "|"))
	}
	return strings.Join(parts, ", ")
}

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func boardFilters(snap board.Snapshot) string {
	var parts []string
	if snap.GlobalQuery != "" {
		parts = append(parts, "search "+StyleBlue.Render(fmt.Sprintf("%q", snap.GlobalQuery)))
	}
	if snap.FavoritesOnly {
		parts = append(parts, StyleYellow.Render("★ favorites only"))
	}
	if f := snap.CardFilter; !f.IsZero() {
		parts = append(parts, StyleBlue.Render(describeCardFilter(f)))
	}
	if snap.ColumnsLocked {
		parts = append(parts, Dim("columns locked"))
	}
	return strings.Join(parts, Dim(" · "))
}

func cardSubtitle(c *domain.Card) string {
	if phone := c.PhoneOrEmpty(); phone != "" {
		return c.Department + " · " + phone
	}
	return c.Department
}
