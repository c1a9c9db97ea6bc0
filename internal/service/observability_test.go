package service

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/repository"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestObserver_RecordsSuccessAndFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}
	columns := NewColumnRegistry(repository.NewSQLiteColumnRepo(database), uow, obs)
	ctx := context.Background()

	require.NoError(t, columns.Insert(ctx, testutil.NewTestColumn("A"), 0))
	require.Error(t, columns.Reorder(ctx, []string{"B"}))

	require.Len(t, obs.events, 2)
	assert.Equal(t, "insert-column", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "A", obs.events[0].Fields["column_id"])

	assert.Equal(t, "reorder-columns", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, domain.ErrInvalidPermutation)
}

func TestLogUseCaseObserver_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "delete-column", Success: true, Fields: map[string]any{"column_id": "B"}})

	out := buf.String()
	assert.Contains(t, out, "board_use_case")
	assert.Contains(t, out, "use_case=delete-column")
	assert.Contains(t, out, "column_id=B")
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
}
