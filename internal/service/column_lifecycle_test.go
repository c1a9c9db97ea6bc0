package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLifecycle_CreateAppends(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B")
	ctx := context.Background()

	col, err := s.lifecycle.Create(ctx, domain.ColumnDraft{TitleChoice: domain.TitleCustom, CustomTitle: "Retorno", Icon: "📞"})
	require.NoError(t, err)
	assert.Equal(t, "Retorno", col.Title)
	assert.Equal(t, "📞", col.Icon)
	assert.Equal(t, 2, col.Order)
	assert.True(t, strings.HasPrefix(col.ID, "custom_"), col.ID)
	assert.Equal(t, []string{"A", "B", col.ID}, listIDs(t, s))
}

func TestColumnLifecycle_CreatePredefinedTitle(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	ctx := context.Background()

	first, err := s.lifecycle.Create(ctx, domain.ColumnDraft{TitleChoice: domain.TitleWaiting})
	require.NoError(t, err)
	second, err := s.lifecycle.Create(ctx, domain.ColumnDraft{TitleChoice: domain.TitleWaiting})
	require.NoError(t, err)

	assert.Equal(t, "Aguardando", first.Title)
	assert.Equal(t, domain.DefaultIcon, first.Icon)
	assert.NotEqual(t, first.ID, second.ID, "same choice twice still yields distinct columns")
}

func TestColumnLifecycle_CreateRejectsBlankCustomTitle(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A")

	_, err := s.lifecycle.Create(context.Background(), domain.ColumnDraft{TitleChoice: domain.TitleCustom, CustomTitle: "  "})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []string{"A"}, listIDs(t, s))
}

func TestColumnLifecycle_DeleteEmptyColumn(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")

	res, err := s.lifecycle.Delete(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reassigned)
	assert.Empty(t, res.FallbackID)
	assert.Equal(t, []string{"A", "C"}, listIDs(t, s))
}

func TestColumnLifecycle_DeleteReassignsToLeftNeighbour(t *testing.T) {
	s := setupStores(t, DeletionPolicy{Mode: domain.DeleteReassign})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	card, err := s.cards.Create(ctx, domain.CardDraft{Title: "Sobrevive", Status: "B"})
	require.NoError(t, err)

	res, err := s.lifecycle.Delete(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "A", res.FallbackID)
	assert.Equal(t, 1, res.Reassigned)

	got, err := s.cards.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Status)
	assert.Equal(t, []string{"A", "C"}, listIDs(t, s))
}

func TestColumnLifecycle_DeleteFirstColumnUsesRightNeighbour(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B")
	ctx := context.Background()

	_, err := s.cards.Create(ctx, domain.CardDraft{Title: "x", Status: "A"})
	require.NoError(t, err)

	res, err := s.lifecycle.Delete(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "B", res.FallbackID)
}

func TestColumnLifecycle_DeleteUsesConfiguredFallback(t *testing.T) {
	s := setupStores(t, DeletionPolicy{Mode: domain.DeleteReassign, Fallback: "C"})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	card, err := s.cards.Create(ctx, domain.CardDraft{Title: "x", Status: "B"})
	require.NoError(t, err)

	res, err := s.lifecycle.Delete(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "C", res.FallbackID)

	got, err := s.cards.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Status)

	// Deleting the fallback itself falls back to a neighbour.
	res, err = s.lifecycle.Delete(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, "A", res.FallbackID)
}

func TestColumnLifecycle_DeleteLastColumnWithCards(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "Only")
	ctx := context.Background()

	_, err := s.cards.Create(ctx, domain.CardDraft{Title: "x", Status: "Only"})
	require.NoError(t, err)

	_, err = s.lifecycle.Delete(ctx, "Only")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []string{"Only"}, listIDs(t, s))
}

func TestColumnLifecycle_DeleteBlockedPolicy(t *testing.T) {
	s := setupStores(t, DeletionPolicy{Mode: domain.DeleteBlock})
	seedBoard(t, s, "A", "B")
	ctx := context.Background()

	_, err := s.cards.Create(ctx, domain.CardDraft{Title: "x", Status: "B"})
	require.NoError(t, err)

	_, err = s.lifecycle.Delete(ctx, "B")
	assert.True(t, errors.Is(err, domain.ErrColumnNotEmpty))
	assert.Equal(t, []string{"A", "B"}, listIDs(t, s))

	_, err = s.lifecycle.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestColumnLifecycle_DeleteRollsBackOnFailure(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	card, err := s.cards.Create(ctx, domain.CardDraft{Title: "x", Status: "B"})
	require.NoError(t, err)

	// Exec 1 reassigns the cards, exec 2 deletes the column row.
	failing := NewColumnLifecycle(&testutil.FailOnNthExecUoW{DB: s.db, FailOn: 2}, DeletionPolicy{})
	_, err = failing.Delete(ctx, "B")
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))

	got, err := s.cards.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Status, "reassignment is rolled back with the failed delete")
	assert.Equal(t, []string{"A", "B", "C"}, listIDs(t, s))
}

func TestNewColumnLifecycle_InvalidModeDefaultsToReassign(t *testing.T) {
	l := NewColumnLifecycle(nil, DeletionPolicy{Mode: "explode"}).(*columnLifecycle)
	assert.Equal(t, domain.DeleteReassign, l.policy.Mode)
}
