package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnRegistry_InsertShiftsRight(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	require.NoError(t, s.columns.Insert(ctx, testutil.NewTestColumn("X"), 1))
	assert.Equal(t, []string{"A", "X", "B", "C"}, listIDs(t, s))

	cols, err := s.columns.List(ctx)
	require.NoError(t, err)
	for i, c := range cols {
		assert.Equal(t, i, c.Order, "order stays dense")
	}
}

func TestColumnRegistry_InsertClampsIndex(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B")
	ctx := context.Background()

	require.NoError(t, s.columns.Insert(ctx, testutil.NewTestColumn("Z"), 99))
	require.NoError(t, s.columns.Insert(ctx, testutil.NewTestColumn("First"), -3))
	assert.Equal(t, []string{"First", "A", "B", "Z"}, listIDs(t, s))
}

func TestColumnRegistry_InsertRejectsDuplicateID(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B")

	err := s.columns.Insert(context.Background(), testutil.NewTestColumn("Outro", testutil.WithColumnID("A")), 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []string{"A", "B"}, listIDs(t, s))
}

func TestColumnRegistry_Remove(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	require.NoError(t, s.columns.Remove(ctx, "B"))
	assert.Equal(t, []string{"A", "C"}, listIDs(t, s))

	cols, err := s.columns.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cols[1].Order)

	assert.True(t, errors.Is(s.columns.Remove(ctx, "B"), domain.ErrNotFound))
}

func TestColumnRegistry_RemoveRefusesColumnWithCards(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B")
	ctx := context.Background()

	_, err := s.cards.Create(ctx, domain.CardDraft{Title: "Preso", Status: "B"})
	require.NoError(t, err)

	err = s.columns.Remove(ctx, "B")
	assert.True(t, errors.Is(err, domain.ErrColumnNotEmpty))
	assert.Equal(t, []string{"A", "B"}, listIDs(t, s))
}

func TestColumnRegistry_Reorder(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	require.NoError(t, s.columns.Reorder(ctx, []string{"C", "A", "B"}))
	assert.Equal(t, []string{"C", "A", "B"}, listIDs(t, s))
}

func TestColumnRegistry_ReorderRejectsNonPermutation(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A", "B", "C")
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing id", []string{"A", "B"}},
		{"unknown id", []string{"A", "B", "D"}},
		{"duplicate id", []string{"A", "A", "B"}},
		{"extra id", []string{"A", "B", "C", "D"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.columns.Reorder(ctx, tc.ids)
			assert.True(t, errors.Is(err, domain.ErrInvalidPermutation))
			assert.Equal(t, []string{"A", "B", "C"}, listIDs(t, s))
		})
	}
}

func TestColumnRegistry_SetDisplay(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	seedBoard(t, s, "A")
	ctx := context.Background()

	col, err := s.columns.SetDisplay(ctx, "A", domain.ByLabel{Label: "vip"})
	require.NoError(t, err)
	assert.Equal(t, domain.ByLabel{Label: "vip"}, col.Display)

	fetched, err := s.columns.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, domain.ByLabel{Label: "vip"}, fetched.Display)

	col, err = s.columns.SetDisplay(ctx, "A", nil)
	require.NoError(t, err)
	assert.Nil(t, col.Display)

	_, err = s.columns.SetDisplay(ctx, "missing", domain.ShowNewest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestColumnRegistry_SeedDefaultsOnlyOnce(t *testing.T) {
	s := setupStores(t, DeletionPolicy{})
	ctx := context.Background()

	seeded, err := s.columns.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, []string{"nao_lidas", "aguardando", "sem_agenda", "encaixe", "finalizado"}, listIDs(t, s))

	seeded, err = s.columns.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, listIDs(t, s), 5)
}
