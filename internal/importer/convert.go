package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/google/uuid"
)

// Converted holds the domain objects an import produces. Column orders are
// left for the caller to assign against the live board.
type Converted struct {
	Columns []*domain.Column
	Cards   []*domain.Card
}

// Convert transforms a validated BoardImport into domain objects ready for
// persistence. Call ValidateBoardImport first; Convert assumes the schema is
// valid.
func Convert(schema *BoardImport, now time.Time) *Converted {
	out := &Converted{
		Columns: make([]*domain.Column, 0, len(schema.Columns)),
		Cards:   make([]*domain.Card, 0, len(schema.Cards)),
	}

	for _, c := range schema.Columns {
		icon := strings.TrimSpace(c.Icon)
		if icon == "" {
			icon = domain.DefaultIcon
		}
		out.Columns = append(out.Columns, &domain.Column{
			ID:    c.ID,
			Title: strings.TrimSpace(c.Title),
			Icon:  icon,
		})
	}

	for _, c := range schema.Cards {
		created := now
		if c.CreatedAt != "" {
			created, _ = parseTimestamp(c.CreatedAt)
		}
		updated := now
		if created.After(now) {
			updated = created
		}

		messages := make([]domain.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			kind := domain.MessageType(m.Type)
			if kind == "" {
				kind = domain.MessageText
			}
			sent := created
			if m.SentAt != "" {
				sent, _ = parseTimestamp(m.SentAt)
			}
			messages = append(messages, domain.Message{
				ID:      uuid.New().String(),
				Sender:  m.Sender,
				Content: m.Content,
				Type:    kind,
				SentAt:  sent,
			})
		}

		out.Cards = append(out.Cards, &domain.Card{
			ID:            uuid.New().String(),
			Title:         strings.TrimSpace(c.Title),
			Description:   c.Description,
			Status:        c.Column,
			Department:    strings.TrimSpace(c.Department),
			Phone:         c.Phone,
			Favorite:      c.Favorite,
			AssignedTo:    c.AssignedTo,
			Collaborators: domain.NormalizeSet(c.Collaborators),
			Labels:        domain.NormalizeSet(c.Labels),
			Observations:  c.Observations,
			Messages:      messages,
			CreatedAt:     created,
			UpdatedAt:     updated,
		})
	}

	return out
}
