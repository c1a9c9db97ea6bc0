package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
)

// FormatCardList renders cards as a table. titles maps column ids to titles.
func FormatCardList(cards []*domain.Card, titles map[string]string) string {
	headers := []string{"ID", "", "TITLE", "COLUMN", "DEPARTMENT", "PHONE", "LABELS", "CREATED"}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		column := titles[c.Status]
		if column == "" {
			column = c.Status
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			Favorite(c.Favorite),
			Truncate(c.Title, 40),
			column,
			c.Department,
			c.PhoneOrEmpty(),
			LabelList(c.Labels),
			RelativeDate(c.CreatedAt),
		})
	}
	return RenderTable(headers, rows)
}

// FormatCard renders a single card with its message history.
func FormatCard(c *domain.Card, columnTitle string) string {
	var b strings.Builder
	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-13s", name)), value)
	}

	field("ID", c.ID)
	field("Column", columnTitle)
	field("Department", c.Department)
	field("Phone", c.PhoneOrEmpty())
	if c.Favorite {
		field("Favorite", Favorite(true))
	}
	if c.AssignedTo != nil {
		field("Assigned to", *c.AssignedTo)
	}
	if len(c.Collaborators) > 0 {
		field("Collaborators", strings.Join(c.Collaborators, ", "))
	}
	if len(c.Labels) > 0 {
		field("Labels", LabelList(c.Labels))
	}
	if c.Description != nil {
		field("Description", *c.Description)
	}
	if c.Observations != nil {
		field("Observations", *c.Observations)
	}
	field("Created", HumanDate(c.CreatedAt)+Dim(" ("+RelativeDate(c.CreatedAt)+")"))
	field("Updated", RelativeDate(c.UpdatedAt))

	if len(c.Messages) > 0 {
		b.WriteString("\n" + Header("Messages") + "\n")
		for _, m := range c.Messages {
			sender := m.Sender
			if sender == "" {
				sender = "-"
			}
			kind := ""
			if m.Type != domain.MessageText {
				kind = Dim(" [" + string(m.Type) + "]")
			}
			fmt.Fprintf(&b, "%s %s%s  %s\n", Dim(m.SentAt.Format("2006-01-02 15:04")), StyleBlue.Render(sender), kind, m.Content)
		}
	}
	return RenderBox(c.Title, strings.TrimRight(b.String(), "\n"))
}

// FormatColumnList renders the registry in order with card counts.
func FormatColumnList(cols []*domain.Column, counts map[string]int) string {
	total := 0
	for _, c := range cols {
		total += counts[c.ID]
	}
	headers := []string{"#", "ID", "TITLE", "CARDS", "DISPLAY"}
	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.Order),
			Dim(c.ID),
			c.Icon + " " + c.Title,
			RenderShare(counts[c.ID], total, 10),
			domain.DescribeDisplay(c.Display),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDeletion reports what deleting a column did.
func FormatDeletion(res *domain.ColumnDeletion, title, fallbackTitle string) string {
	if res.Reassigned == 0 {
		return fmt.Sprintf("Deleted column %s", Bold(title))
	}
	return fmt.Sprintf("Deleted column %s, moved %d cards to %s", Bold(title), res.Reassigned, Bold(fallbackTitle))
}

// FormatOutcome reports how a gesture settled.
func FormatOutcome(o board.Outcome, err error) string {
	if err != nil {
		return OutcomeIndicator(o) + " " + StyleRed.Render(err.Error())
	}
	return OutcomeIndicator(o)
}
