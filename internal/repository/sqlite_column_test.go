package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnRepo_CreateListOrdered(t *testing.T) {
	repo := NewSQLiteColumnRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestColumn("done", testutil.WithOrder(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestColumn("new", testutil.WithOrder(0))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestColumn("waiting", testutil.WithOrder(1))))

	cols, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "new", cols[0].ID)
	assert.Equal(t, "waiting", cols[1].ID)
	assert.Equal(t, "done", cols[2].ID)
}

func TestColumnRepo_DuplicateOrderRejected(t *testing.T) {
	repo := NewSQLiteColumnRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestColumn("a", testutil.WithOrder(0))))
	err := repo.Create(ctx, testutil.NewTestColumn("b", testutil.WithOrder(0)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestColumnRepo_DisplayModeRoundTrip(t *testing.T) {
	repo := NewSQLiteColumnRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)
	modes := map[string]domain.DisplayMode{
		"natural": nil,
		"oldest":  domain.ShowOldest{},
		"newest":  domain.ShowNewest{},
		"label":   domain.ByLabel{Label: "vip"},
		"range":   domain.ByDateRange{From: &from, To: &to},
		"open":    domain.ByDateRange{From: &from},
	}
	i := 0
	for id, mode := range modes {
		require.NoError(t, repo.Create(ctx, testutil.NewTestColumn(id, testutil.WithOrder(i), testutil.WithDisplay(mode))))
		i++
	}

	for id, mode := range modes {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, mode, got.Display, "column %s", id)
	}
}

func TestColumnRepo_UpdateAndDelete(t *testing.T) {
	repo := NewSQLiteColumnRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	col := testutil.NewTestColumn("new", testutil.WithOrder(0))
	require.NoError(t, repo.Create(ctx, col))

	col.Title = "Novos"
	col.Display = domain.ShowNewest{}
	require.NoError(t, repo.Update(ctx, col))

	got, err := repo.GetByID(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "Novos", got.Title)
	assert.Equal(t, domain.ShowNewest{}, got.Display)

	require.NoError(t, repo.Delete(ctx, "new"))
	_, err = repo.GetByID(ctx, "new")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, "new"), domain.ErrNotFound))
}

func TestColumnRepo_SetOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteColumnRepo(database)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestColumn(id, testutil.WithOrder(i))))
	}
	require.NoError(t, repo.SetOrder(ctx, []string{"c", "a", "b"}))

	cols, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, []string{cols[0].ID, cols[1].ID, cols[2].ID})
	for i, c := range cols {
		assert.Equal(t, i, c.Order)
	}
}
