package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly age such as "3d ago".
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns the age of t as seen from now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		return HumanDate(t)
	}
	days := int(math.Floor(diff.Hours() / 24))

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case days == 1:
		return "Yesterday"
	case days < 14:
		return fmt.Sprintf("%dd ago", days)
	case days < 60:
		return fmt.Sprintf("%dw ago", days/7)
	default:
		return fmt.Sprintf("%dmo ago", days/30)
	}
}

// HumanDate returns an absolute date such as "Jan 2, 2006".
func HumanDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to at most n visible cells, ending with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// LabelList renders labels as "#vip #retorno", or a dim dash when empty.
func LabelList(labels []string) string {
	if len(labels) == 0 {
		return StyleDim.Render("--")
	}
	tags := make([]string, len(labels))
	for i, l := range labels {
		tags[i] = "#" + l
	}
	return StylePurple.Render(strings.Join(tags, " "))
}
