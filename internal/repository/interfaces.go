package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// CardRepo persists cards together with their labels, collaborators and
// messages. Multi-statement writes expect to run inside a transaction.
type CardRepo interface {
	Create(ctx context.Context, c *domain.Card) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	// List returns every card in store order (insertion order).
	List(ctx context.Context) ([]*domain.Card, error)
	CountByStatus(ctx context.Context, columnID string) (int, error)
	Update(ctx context.Context, c *domain.Card) error
	Delete(ctx context.Context, id string) error
	// ReassignStatus moves every card of one column into another and
	// returns how many cards moved.
	ReassignStatus(ctx context.Context, from, to string, at time.Time) (int, error)
	AppendMessage(ctx context.Context, cardID string, m domain.Message, at time.Time) error
}

// ColumnRepo persists column definitions and their dense order.
type ColumnRepo interface {
	Create(ctx context.Context, c *domain.Column) error
	GetByID(ctx context.Context, id string) (*domain.Column, error)
	// List returns columns sorted by order.
	List(ctx context.Context) ([]*domain.Column, error)
	Update(ctx context.Context, c *domain.Column) error
	Delete(ctx context.Context, id string) error
	// SetOrder assigns order 0..n-1 following ids.
	SetOrder(ctx context.Context, ids []string) error
}
