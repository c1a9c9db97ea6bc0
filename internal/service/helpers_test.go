package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/repository"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testStores struct {
	db        *sql.DB
	cards     CardStore
	columns   ColumnRegistry
	lifecycle ColumnLifecycle
}

func setupStores(t *testing.T, policy DeletionPolicy) testStores {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return testStores{
		db:        database,
		cards:     NewCardStore(repository.NewSQLiteCardRepo(database), uow),
		columns:   NewColumnRegistry(repository.NewSQLiteColumnRepo(database), uow),
		lifecycle: NewColumnLifecycle(uow, policy),
	}
}

// seedBoard installs columns in order and returns them.
func seedBoard(t *testing.T, s testStores, ids ...string) []*domain.Column {
	t.Helper()
	ctx := context.Background()
	cols := make([]*domain.Column, 0, len(ids))
	for i, id := range ids {
		c := testutil.NewTestColumn(id)
		require.NoError(t, s.columns.Insert(ctx, c, i))
		cols = append(cols, c)
	}
	return cols
}

func listIDs(t *testing.T, s testStores) []string {
	t.Helper()
	cols, err := s.columns.List(context.Background())
	require.NoError(t, err)
	return columnIDs(cols)
}
