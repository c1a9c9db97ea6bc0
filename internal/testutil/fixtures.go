package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/google/uuid"
)

var testColumnCounter atomic.Int64

// Column options
type ColumnOption func(*domain.Column)

func WithColumnID(id string) ColumnOption {
	return func(c *domain.Column) {
		c.ID = id
	}
}

func WithIcon(icon string) ColumnOption {
	return func(c *domain.Column) {
		c.Icon = icon
	}
}

func WithOrder(order int) ColumnOption {
	return func(c *domain.Column) {
		c.Order = order
	}
}

func WithDisplay(m domain.DisplayMode) ColumnOption {
	return func(c *domain.Column) {
		c.Display = m
	}
}

// NewTestColumn builds a column whose id defaults to the title.
func NewTestColumn(title string, opts ...ColumnOption) *domain.Column {
	c := &domain.Column{
		ID:    title,
		Title: title,
		Icon:  "📋",
		Order: int(testColumnCounter.Add(1)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Card options
type CardOption func(*domain.Card)

func WithDepartment(d string) CardOption {
	return func(c *domain.Card) {
		c.Department = d
	}
}

func WithPhone(p string) CardOption {
	return func(c *domain.Card) {
		c.Phone = &p
	}
}

func WithFavorite() CardOption {
	return func(c *domain.Card) {
		c.Favorite = true
	}
}

func WithLabels(labels ...string) CardOption {
	return func(c *domain.Card) {
		c.Labels = domain.NormalizeSet(labels)
	}
}

func WithCollaborators(ids ...string) CardOption {
	return func(c *domain.Card) {
		c.Collaborators = domain.NormalizeSet(ids)
	}
}

func WithCreatedAt(t time.Time) CardOption {
	return func(c *domain.Card) {
		c.CreatedAt = t.UTC()
		c.UpdatedAt = t.UTC()
	}
}

func WithCardID(id string) CardOption {
	return func(c *domain.Card) {
		c.ID = id
	}
}

func WithMessages(contents ...string) CardOption {
	return func(c *domain.Card) {
		for i, content := range contents {
			c.Messages = append(c.Messages, domain.Message{
				ID:      fmt.Sprintf("%s-m%d", c.ID, i),
				Sender:  "contato",
				Content: content,
				Type:    domain.MessageText,
				SentAt:  c.CreatedAt.Add(time.Duration(i) * time.Minute),
			})
		}
	}
}

// NewTestCard builds a card sitting in status.
func NewTestCard(title, status string, opts ...CardOption) *domain.Card {
	now := time.Now().UTC()
	c := &domain.Card{
		ID:            uuid.New().String(),
		Title:         title,
		Status:        status,
		Department:    "Suporte",
		Collaborators: []string{},
		Labels:        []string{},
		Messages:      []domain.Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
