package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// ValidateBoardImport checks the import for errors before conversion.
// existing holds the IDs of the columns already on the board.
// Returns a slice of all validation errors found.
func ValidateBoardImport(schema *BoardImport, existing []string) []error {
	var errs []error

	known := make(map[string]bool, len(existing)+len(schema.Columns))
	for _, id := range existing {
		known[id] = true
	}
	errs = append(errs, validateColumns(schema.Columns, known)...)
	errs = append(errs, validateCards(schema.Cards, known)...)

	return errs
}

func validateColumns(cols []ColumnImport, known map[string]bool) []error {
	var errs []error

	for i, c := range cols {
		prefix := fmt.Sprintf("columns[%d]", i)
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if known[c.ID] {
			errs = append(errs, fmt.Errorf("%s.id: column %q already exists", prefix, c.ID))
		} else {
			known[c.ID] = true
		}
		if strings.TrimSpace(c.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	return errs
}

func validateCards(cards []CardImport, known map[string]bool) []error {
	var errs []error

	for i, c := range cards {
		prefix := fmt.Sprintf("cards[%d]", i)
		if strings.TrimSpace(c.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if c.Column == "" {
			errs = append(errs, fmt.Errorf("%s.column is required", prefix))
		} else if !known[c.Column] {
			errs = append(errs, fmt.Errorf("%s.column: unknown column %q", prefix, c.Column))
		}
		if c.CreatedAt != "" {
			if _, err := parseTimestamp(c.CreatedAt); err != nil {
				errs = append(errs, fmt.Errorf("%s.created_at: %w", prefix, err))
			}
		}
		for j, m := range c.Messages {
			errs = append(errs, validateMessage(fmt.Sprintf("%s.messages[%d]", prefix, j), m)...)
		}
	}

	return errs
}

func validateMessage(prefix string, m MessageImport) []error {
	var errs []error

	if strings.TrimSpace(m.Content) == "" {
		errs = append(errs, fmt.Errorf("%s.content is required", prefix))
	}
	if m.Type != "" && !domain.MessageType(m.Type).Valid() {
		errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, m.Type))
	}
	if m.SentAt != "" {
		if _, err := parseTimestamp(m.SentAt); err != nil {
			errs = append(errs, fmt.Errorf("%s.sent_at: %w", prefix, err))
		}
	}

	return errs
}

// parseTimestamp accepts RFC 3339 or a bare YYYY-MM-DD date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (expected RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}
