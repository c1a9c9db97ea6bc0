package tui

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	b := m.ctrl.Board()
	snap := m.ctrl.Snapshot()

	var out strings.Builder
	out.WriteString(m.renderHeader(snap))
	out.WriteString("\n")
	if m.mode == modeSearch {
		out.WriteString(m.search.View() + "\n")
	}
	out.WriteString("\n")

	if len(b.Columns) == 0 {
		out.WriteString(dimStyle.Render("No columns. Add one with 'pipeline column add'.") + "\n")
	} else {
		width := m.columnWidth(len(b.Columns))
		cols := make([]string, len(b.Columns))
		for i, v := range b.Columns {
			cols[i] = m.renderColumn(i, v, snap.ColumnQueries[v.Column.ID], width)
		}
		out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		out.WriteString("\n")
	}

	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		out.WriteString(style.Render(m.status) + "\n")
	}
	out.WriteString(m.renderHelp())
	return out.String()
}

func (m *Model) renderHeader(snap board.Snapshot) string {
	parts := []string{titleStyle.Render("PIPELINE")}
	if snap.GlobalQuery != "" && m.mode != modeSearch {
		parts = append(parts, queryStyle.Render(fmt.Sprintf("search %q", snap.GlobalQuery)))
	}
	if snap.FavoritesOnly {
		parts = append(parts, starStyle.Render("★ favorites"))
	}
	if snap.ColumnsLocked {
		parts = append(parts, dimStyle.Render("columns locked"))
	}
	if snap.Pending > 0 {
		parts = append(parts, starStyle.Render(fmt.Sprintf("saving %d", snap.Pending)))
	}
	return strings.Join(parts, dimStyle.Render("  ·  "))
}

func (m *Model) columnWidth(n int) int {
	if m.width <= 0 {
		return 28
	}
	// Borders and padding take four cells per column.
	return clamp(m.width/n-4, minColumnWidth, maxColumnWidth)
}

func (m *Model) renderColumn(i int, v filter.ColumnView, query string, width int) string {
	style := columnStyle
	switch {
	case m.mode == modeMove && m.grab != nil && m.grab.col == i:
		style = dropTargetColumnStyle
	case m.mode != modeMove && i == m.col:
		style = selectedColumnStyle
	}

	count := fmt.Sprintf("%d", len(v.Cards))
	if len(v.Cards) != v.Total {
		count = fmt.Sprintf("%d/%d", len(v.Cards), v.Total)
	}
	lines := []string{columnTitleStyle.Render(v.Column.Icon+" "+v.Column.Title) + " " + dimStyle.Render(count)}
	if v.Column.Display != nil {
		lines = append(lines, dimStyle.Render(domain.DescribeDisplay(v.Column.Display)))
	}
	if query != "" {
		lines = append(lines, queryStyle.Render("/ "+query))
	}
	lines = append(lines, "")

	dropAt := -1
	if m.mode == modeMove && m.grab != nil && m.grab.col == i {
		dropAt = m.grab.index
	}
	slot := 0
	for row, c := range v.Cards {
		grabbed := m.grab != nil && c.ID == m.grab.cardID
		if !grabbed {
			if slot == dropAt {
				lines = append(lines, dropMarkerStyle.Render("▸ drop here"))
			}
			slot++
		}
		lines = append(lines, m.renderCard(c, i, row, grabbed, width-2))
	}
	if dropAt >= slot {
		lines = append(lines, dropMarkerStyle.Render("▸ drop here"))
	}
	if len(v.Cards) == 0 && dropAt < 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderCard(c *domain.Card, col, row int, grabbed bool, width int) string {
	style := cardStyle
	switch {
	case grabbed:
		style = grabbedCardStyle
	case m.mode == modeNormal && col == m.col && row == m.row:
		style = selectedCardStyle
	}

	star := " "
	if c.Favorite {
		star = starStyle.Render("★")
	}
	sub := c.Department
	if phone := c.PhoneOrEmpty(); phone != "" {
		sub += " · " + phone
	}
	body := star + " " + truncate(c.Title, width-3) + "\n" + dimStyle.Render(truncate(sub, width-1))
	if len(c.Labels) > 0 {
		body += "\n" + queryStyle.Render(truncate("#"+strings.Join(c.Labels, " #"), width-1))
	}
	return style.Render(body)
}

func (m *Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	switch {
	case m.mode == modeMove:
		bindings = m.keys.moveHelp()
	case m.mode == modeSearch:
		bindings = []key.Binding{m.keys.Drop, m.keys.Cancel}
	case m.showHelp:
		bindings = m.keys.FullHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, titleStyle.Render(h.Key)+" "+dimStyle.Render(h.Desc))
	}
	return strings.Join(parts, dimStyle.Render(" • "))
}

func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
