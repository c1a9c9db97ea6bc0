package service

import (
	"context"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/importer"
)

// CardStore is the authoritative owner of card state.
type CardStore interface {
	List(ctx context.Context) ([]*domain.Card, error)
	Get(ctx context.Context, id string) (*domain.Card, error)
	Create(ctx context.Context, d domain.CardDraft) (*domain.Card, error)
	Update(ctx context.Context, id string, p domain.CardPatch) (*domain.Card, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (*domain.Card, error)
	AppendMessage(ctx context.Context, id string, m domain.Message) (*domain.Card, error)
}

// ColumnRegistry owns the ordered column definitions.
type ColumnRegistry interface {
	List(ctx context.Context) ([]*domain.Column, error)
	Get(ctx context.Context, id string) (*domain.Column, error)
	Insert(ctx context.Context, c *domain.Column, at int) error
	Remove(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
	SetDisplay(ctx context.Context, id string, m domain.DisplayMode) (*domain.Column, error)
	// SeedDefaults installs the default columns into an empty registry and
	// reports whether it did.
	SeedDefaults(ctx context.Context) (bool, error)
}

// ColumnLifecycle creates and deletes columns while keeping every card
// attached to an existing column.
type ColumnLifecycle interface {
	Create(ctx context.Context, d domain.ColumnDraft) (*domain.Column, error)
	Delete(ctx context.Context, id string) (*domain.ColumnDeletion, error)
}

// ImportService loads columns and cards from a JSON file in one transaction.
type ImportService interface {
	ImportBoard(ctx context.Context, filePath string) (*ImportResult, error)
	ImportBoardFromSchema(ctx context.Context, schema *importer.BoardImport) (*ImportResult, error)
}

// ImportResult counts what an import added.
type ImportResult struct {
	ColumnCount int
	CardCount   int
}
