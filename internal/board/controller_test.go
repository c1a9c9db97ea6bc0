package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id, title, status string, opts ...testutil.CardOption) *domain.Card {
	return testutil.NewTestCard(title, status, append([]testutil.CardOption{testutil.WithCardID(id)}, opts...)...)
}

func TestNew_LoadsBoard(t *testing.T) {
	cards := newFakeCards(card("c1", "João Silva", "New"), card("c2", "Maria Santos", "Done"))
	ctrl := startController(t, cards, newFakeColumns("New", "Waiting", "Done"), nil, Options{})

	b := ctrl.Board()
	require.Len(t, b.Columns, 3)
	assert.Equal(t, []string{"c1"}, b.CardIDs("New"))
	assert.Empty(t, b.CardIDs("Waiting"))
	assert.Equal(t, []string{"c2"}, b.CardIDs("Done"))

	snap := ctrl.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Zero(t, snap.Pending)
}

func TestMoveCard_ConfirmedMoveLandsAtDestinationIndex(t *testing.T) {
	cards := newFakeCards(card("c1", "João", "New"), card("d1", "Done one", "Done"))
	cards.gate = make(chan struct{})
	ctrl := startController(t, cards, newFakeColumns("New", "Waiting", "Done"), nil, Options{})

	ticket, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", SourceIndex: 0, DestColumn: "Done", DestIndex: 0})
	require.NoError(t, err)

	// The optimistic move is visible before the store answers.
	assert.Equal(t, []string{"c1", "d1"}, ctrl.Board().CardIDs("Done"))
	assert.Empty(t, ctrl.Board().CardIDs("New"))
	snap := ctrl.Snapshot()
	assert.Equal(t, StateReconciling, snap.State)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, OutcomePending, ticket.Outcome())

	close(cards.gate)
	outcome, err := waitTicket(t, ticket)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)

	snap = ctrl.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, []string{"c1", "d1"}, ctrl.Board().CardIDs("Done"))
	assert.Equal(t, "Done", cards.status("c1"))
	require.NotEmpty(t, snap.Txns)
	assert.Equal(t, TxnCommitted, snap.Txns[len(snap.Txns)-1].State)
}

func TestMoveCard_StoreUnavailableRollsBack(t *testing.T) {
	cards := newFakeCards(card("c0", "a", "New"), card("c1", "b", "New"), card("c2", "c", "New"))
	cards.fail(domain.Unavailable("updating card", errors.New("database is locked")))
	ctrl := startController(t, cards, newFakeColumns("New", "Waiting", "Done"), nil, Options{})
	notes := ctrl.Subscribe()

	ticket, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 1, DestColumn: "Done", DestIndex: 0})
	require.NoError(t, err)

	outcome, err := waitTicket(t, ticket)
	assert.Equal(t, OutcomeRolledBack, outcome)
	assert.True(t, domain.IsTransient(err))

	assert.Equal(t, []string{"c0", "c1", "c2"}, ctrl.Board().CardIDs("New"), "card is back at its original index")
	assert.Empty(t, ctrl.Board().CardIDs("Done"))
	assert.Equal(t, "New", cards.status("c1"))

	n := nextNotification(t, notes, NotifyMoveRolledBack)
	assert.Equal(t, "c1", n.CardID)
	assert.True(t, n.Failed())
	assert.Equal(t, StateIdle, ctrl.Snapshot().State)
}

func TestMoveCard_NotFoundRefreshesBoard(t *testing.T) {
	cards := newFakeCards(card("c1", "gone", "New"), card("c2", "stays", "New"))
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})
	notes := ctrl.Subscribe()
	cards.remove("c1")

	ticket, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", SourceIndex: 0, DestColumn: "Done", DestIndex: 0})
	require.NoError(t, err)

	_, err = waitTicket(t, ticket)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	nextNotification(t, notes, NotifyReloaded)
	assert.Equal(t, []string{"c2"}, ctrl.Board().CardIDs("New"))
}

func TestMoveCard_SecondMoveWhilePendingIsRejected(t *testing.T) {
	cards := newFakeCards(card("c1", "a", "New"))
	cards.gate = make(chan struct{})
	ctrl := startController(t, cards, newFakeColumns("New", "Waiting", "Done"), nil, Options{})

	first, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", DestColumn: "Waiting"})
	require.NoError(t, err)

	_, err = moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "Waiting", DestColumn: "Done"})
	assert.True(t, errors.Is(err, ErrMovePending))
	assert.Equal(t, []string{"c1"}, ctrl.Board().CardIDs("Waiting"))
	assert.Equal(t, StateReconciling, ctrl.Snapshot().State, "a rejected drop still ends the gesture")

	close(cards.gate)
	outcome, err := waitTicket(t, first)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.EqualValues(t, 1, cards.updates.Load())
}

func TestMoveCard_WithinColumnStaysLocal(t *testing.T) {
	cards := newFakeCards(card("a", "a", "New"), card("b", "b", "New"), card("c", "c", "New"))
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})

	ticket, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 2, DestColumn: "New", DestIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, OutcomeReordered, ticket.Outcome())
	assert.Equal(t, []string{"c", "a", "b"}, ctrl.Board().CardIDs("New"))
	assert.Zero(t, cards.updates.Load(), "card order is not persisted")

	ticket, err = moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 0, DestColumn: "New", DestIndex: 5})
	require.NoError(t, err)
	assert.Equal(t, OutcomeReordered, ticket.Outcome())
	assert.Equal(t, []string{"a", "b", "c"}, ctrl.Board().CardIDs("New"))

	_, err = moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 1, DestColumn: "New", DestIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ctrl.Board().CardIDs("New"))

	require.NoError(t, ctrl.Reload(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, ctrl.Board().CardIDs("New"), "reload restores store order")
}

func TestMoveCard_SamePositionIsNoop(t *testing.T) {
	cards := newFakeCards(card("a", "a", "New"), card("b", "b", "New"))
	ctrl := startController(t, cards, newFakeColumns("New"), nil, Options{})

	ticket, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 1, DestColumn: "New", DestIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, ticket.Outcome())
	assert.Equal(t, []string{"a", "b"}, ctrl.Board().CardIDs("New"))
}

func TestMoveCard_IndicesAreVisiblePositions(t *testing.T) {
	cards := newFakeCards(
		card("n1", "Pedro", "New"),
		card("n2", "João Silva", "New"),
		card("d1", "Ana Silva", "Done"),
		card("d2", "Bruno", "Done"),
		card("d3", "Carla Silva", "Done"),
	)
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})
	require.NoError(t, ctrl.SetGlobalQuery("silva"))
	assert.Equal(t, []string{"n2"}, ctrl.Board().CardIDs("New"))
	assert.Equal(t, []string{"d1", "d3"}, ctrl.Board().CardIDs("Done"))

	ticket, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 0, DestColumn: "Done", DestIndex: 1})
	require.NoError(t, err)
	_, err = waitTicket(t, ticket)
	require.NoError(t, err)

	assert.Equal(t, []string{"d1", "n2", "d3"}, ctrl.Board().CardIDs("Done"))
	require.NoError(t, ctrl.SetGlobalQuery(""))
	assert.Equal(t, []string{"d1", "d2", "n2", "d3"}, ctrl.Board().CardIDs("Done"), "lands right before the card shown at the drop index")
	assert.Equal(t, []string{"n1"}, ctrl.Board().CardIDs("New"))
}

func TestMoveCard_StaleGesture(t *testing.T) {
	cards := newFakeCards(card("a", "a", "New"))
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})

	_, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 3, DestColumn: "Done"})
	assert.True(t, errors.Is(err, ErrStaleGesture))

	_, err = moveCard(t, ctrl, DragEvent{DraggableID: "a", SourceColumn: "Done", DestColumn: "New"})
	assert.True(t, errors.Is(err, ErrStaleGesture))

	_, err = moveCard(t, ctrl, DragEvent{DraggableID: "a", SourceColumn: "New", DestColumn: "Nowhere"})
	assert.True(t, errors.Is(err, ErrStaleGesture))

	assert.Equal(t, StateIdle, ctrl.Snapshot().State)
	assert.Equal(t, []string{"a"}, ctrl.Board().CardIDs("New"))
}

func TestDragGuard(t *testing.T) {
	ctrl := startController(t, newFakeCards(card("a", "a", "New")), newFakeColumns("New", "Done"), nil, Options{})

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragCard, DraggableID: "a"}))
	assert.Equal(t, StateDraggingCard, ctrl.Snapshot().State)
	assert.True(t, errors.Is(ctrl.OnDragStart(DragStart{Kind: DragColumn}), ErrDragInProgress))
	assert.True(t, errors.Is(ctrl.OnDragStart(DragStart{Kind: DragCard}), ErrDragInProgress))

	ticket, err := ctrl.OnDragEnd(DragEvent{Kind: DragCard, Canceled: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCanceled, ticket.Outcome())
	assert.Equal(t, StateIdle, ctrl.Snapshot().State)
	assert.Equal(t, []string{"a"}, ctrl.Board().CardIDs("New"))

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn}))
	assert.Equal(t, StateDraggingColumn, ctrl.Snapshot().State)
}

func TestMoveCard_WithinSortedColumnIsNoop(t *testing.T) {
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	cards := newFakeCards(
		card("a", "a", "New", testutil.WithCreatedAt(base)),
		card("b", "b", "New", testutil.WithCreatedAt(base.Add(time.Hour))),
		card("c", "c", "Done", testutil.WithCreatedAt(base)),
		card("d", "d", "Done", testutil.WithCreatedAt(base.Add(time.Hour))),
	)
	columns := newFakeColumns("New", "Done")
	ctrl := startController(t, cards, columns, nil, Options{})
	_, err := ctrl.SetColumnDisplay(context.Background(), "New", domain.ShowNewest{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, ctrl.Board().CardIDs("New"))

	ticket, err := moveCard(t, ctrl, DragEvent{SourceColumn: "New", SourceIndex: 1, DestColumn: "New", DestIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, ticket.Outcome())
	assert.Equal(t, []string{"b", "a"}, ctrl.Board().CardIDs("New"))
	assert.Equal(t, []string{"a", "b"}, ctrl.Snapshot().Sequences["New"], "working order is untouched")

	// A board-wide order sorts every column the same way.
	require.NoError(t, ctrl.SetCardFilter(filter.CardFilter{Order: filter.OrderOldest}))
	ticket, err = moveCard(t, ctrl, DragEvent{SourceColumn: "Done", SourceIndex: 1, DestColumn: "Done", DestIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, ticket.Outcome())
	assert.Equal(t, []string{"c", "d"}, ctrl.Board().CardIDs("Done"))

	require.NoError(t, ctrl.SetCardFilter(filter.CardFilter{}))
	ticket, err = moveCard(t, ctrl, DragEvent{SourceColumn: "Done", SourceIndex: 1, DestColumn: "Done", DestIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, OutcomeReordered, ticket.Outcome())
	assert.Equal(t, []string{"d", "c"}, ctrl.Board().CardIDs("Done"))
	assert.Zero(t, cards.updates.Load())
}

func TestSetCardFilter(t *testing.T) {
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	cards := newFakeCards(
		card("c1", "João", "New", testutil.WithCreatedAt(base), testutil.WithLabels("urgent")),
		card("c2", "Maria", "New", testutil.WithCreatedAt(base.AddDate(0, 0, 3))),
		card("c3", "Rita", "Done", testutil.WithCreatedAt(base.AddDate(0, 0, 5)), testutil.WithLabels("encaixe")),
	)
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})

	require.NoError(t, ctrl.SetCardFilter(filter.CardFilter{Tags: []string{"urgent", "encaixe"}}))
	assert.Equal(t, []string{"c1"}, ctrl.Board().CardIDs("New"))
	assert.Equal(t, []string{"c3"}, ctrl.Board().CardIDs("Done"))
	assert.Equal(t, []string{"urgent", "encaixe"}, ctrl.Snapshot().CardFilter.Tags)

	from := base.AddDate(0, 0, 1)
	require.NoError(t, ctrl.SetCardFilter(filter.CardFilter{From: &from, Order: filter.OrderNewest}))
	assert.Equal(t, []string{"c2"}, ctrl.Board().CardIDs("New"))
	assert.Equal(t, []string{"c3"}, ctrl.Board().CardIDs("Done"))

	to := base
	err := ctrl.SetCardFilter(filter.CardFilter{From: &from, To: &to})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, filter.OrderNewest, ctrl.Snapshot().CardFilter.Order, "a rejected filter keeps the previous one")

	require.NoError(t, ctrl.SetCardFilter(filter.CardFilter{}))
	assert.Equal(t, 3, ctrl.Board().VisibleCount())
	assert.True(t, ctrl.Snapshot().CardFilter.IsZero())
}

func TestOnDragEnd_Rejects(t *testing.T) {
	ctrl := startController(t, newFakeCards(), newFakeColumns("New", "Done"), nil, Options{})

	_, err := ctrl.OnDragEnd(DragEvent{Kind: DragCard})
	assert.True(t, errors.Is(err, ErrStaleGesture), "no drag in progress")

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragCard}))
	_, err = ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 0, DestIndex: 1})
	assert.True(t, errors.Is(err, ErrStaleGesture), "kind mismatch")
	assert.Equal(t, StateIdle, ctrl.Snapshot().State)

	err = ctrl.OnDragStart(DragStart{Kind: "sideways"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestDropColumn_PersistsOrder(t *testing.T) {
	columns := newFakeColumns("A", "B", "C")
	ctrl := startController(t, newFakeCards(), columns, nil, Options{})

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn, DraggableID: "A"}))
	ticket, err := ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 0, DestIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, columnOrder(ctrl))

	outcome, err := waitTicket(t, ticket)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.Equal(t, [][]string{{"B", "C", "A"}}, columns.saved())

	snap := ctrl.Snapshot()
	for i, c := range snap.Columns {
		assert.Equal(t, i, c.Order)
	}
}

func TestDropColumn_RejectedReorderRestoresOrder(t *testing.T) {
	columns := newFakeColumns("A", "B", "C")
	columns.fail(domain.Unavailable("reordering columns", errors.New("disk I/O error")))
	ctrl := startController(t, newFakeCards(), columns, nil, Options{})
	notes := ctrl.Subscribe()

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn}))
	ticket, err := ctrl.OnDragEnd(DragEvent{SourceIndex: 2, DestIndex: 0})
	require.NoError(t, err)

	outcome, err := waitTicket(t, ticket)
	assert.Equal(t, OutcomeRolledBack, outcome)
	assert.True(t, domain.IsTransient(err))
	assert.Equal(t, []string{"A", "B", "C"}, columnOrder(ctrl))

	n := nextNotification(t, notes, NotifyColumnOrderReverted)
	assert.Equal(t, "C", n.ColumnID)
}

func TestDropColumn_Locked(t *testing.T) {
	ctrl := startController(t, newFakeCards(), newFakeColumns("A", "B"), nil, Options{LockColumns: true})

	assert.True(t, errors.Is(ctrl.OnDragStart(DragStart{Kind: DragColumn}), ErrColumnsLocked))
	assert.True(t, ctrl.Snapshot().ColumnsLocked)

	require.NoError(t, ctrl.SetColumnsLocked(false))
	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn}))
	require.NoError(t, ctrl.SetColumnsLocked(true))
	_, err := ctrl.OnDragEnd(DragEvent{SourceIndex: 0, DestIndex: 1})
	assert.True(t, errors.Is(err, ErrColumnsLocked), "locking mid-drag still rejects the drop")
	assert.Equal(t, []string{"A", "B"}, columnOrder(ctrl))
}

func TestColumnOps_RefusedWhileReorderPending(t *testing.T) {
	columns := newFakeColumns("A", "B", "C")
	columns.gate = make(chan struct{})
	ctrl := startController(t, newFakeCards(), columns, nil, Options{})

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn, DraggableID: "A"}))
	ticket, err := ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 0, DestIndex: 1})
	require.NoError(t, err)

	_, err = ctrl.CreateColumn(context.Background(), domain.ColumnDraft{TitleChoice: domain.TitleWaiting})
	assert.True(t, errors.Is(err, ErrColumnBusy))
	_, err = ctrl.DeleteColumn(context.Background(), "C")
	assert.True(t, errors.Is(err, ErrColumnBusy))

	close(columns.gate)
	outcome, err := waitTicket(t, ticket)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.Equal(t, []string{"B", "A", "C"}, columnOrder(ctrl))
}

func TestDropColumn_OneReorderAtATime(t *testing.T) {
	columns := newFakeColumns("A", "B", "C")
	columns.gate = make(chan struct{})
	ctrl := startController(t, newFakeCards(), columns, nil, Options{})

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn, DraggableID: "A"}))
	first, err := ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 0, DestIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, columnOrder(ctrl))

	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn, DraggableID: "C"}))
	_, err = ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 1, DestIndex: 0})
	assert.True(t, errors.Is(err, ErrColumnBusy))
	assert.Equal(t, []string{"B", "C", "A"}, columnOrder(ctrl), "a refused drop leaves the order alone")
	assert.Equal(t, StateReconciling, ctrl.Snapshot().State, "a refused drop still ends the gesture")

	close(columns.gate)
	outcome, err := waitTicket(t, first)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.Equal(t, [][]string{{"B", "C", "A"}}, columns.saved())
	assert.Equal(t, columns.saved()[0], columnOrder(ctrl))

	// Once settled, the next reorder goes through.
	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragColumn, DraggableID: "C"}))
	second, err := ctrl.OnDragEnd(DragEvent{Kind: DragColumn, SourceIndex: 1, DestIndex: 0})
	require.NoError(t, err)
	outcome, err = waitTicket(t, second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.Equal(t, [][]string{{"B", "C", "A"}, {"C", "B", "A"}}, columns.saved())
	assert.Equal(t, []string{"C", "B", "A"}, columnOrder(ctrl))
}

func TestDeleteColumn_RefusedWhileMovePending(t *testing.T) {
	cards := newFakeCards(card("c1", "a", "New"))
	cards.gate = make(chan struct{})
	ctrl := startController(t, cards, newFakeColumns("New", "Done", "Other"), nil, Options{})

	ticket, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", DestColumn: "Done"})
	require.NoError(t, err)

	_, err = ctrl.DeleteColumn(context.Background(), "Done")
	assert.True(t, errors.Is(err, ErrMovePending))
	_, err = ctrl.DeleteColumn(context.Background(), "New")
	assert.True(t, errors.Is(err, ErrMovePending))
	_, err = ctrl.DeleteColumn(context.Background(), "Missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	close(cards.gate)
	_, err = waitTicket(t, ticket)
	require.NoError(t, err)
}

func TestQueries(t *testing.T) {
	cards := newFakeCards(
		card("c1", "João Silva", "New"),
		card("c2", "Maria Santos", "New", testutil.WithFavorite()),
		card("c3", "Silvana", "Done", testutil.WithPhone("555-0101")),
	)
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{})

	require.NoError(t, ctrl.SetGlobalQuery("Silva"))
	assert.Equal(t, []string{"c1"}, ctrl.Board().CardIDs("New"))
	assert.Equal(t, []string{"c3"}, ctrl.Board().CardIDs("Done"))

	require.NoError(t, ctrl.SetGlobalQuery(""))
	require.NoError(t, ctrl.SetColumnQuery("Done", "0101"))
	assert.Equal(t, []string{"c3"}, ctrl.Board().CardIDs("Done"))
	assert.Equal(t, "0101", ctrl.Snapshot().ColumnQueries["Done"])

	require.NoError(t, ctrl.SetColumnQuery("Done", ""))
	assert.NotContains(t, ctrl.Snapshot().ColumnQueries, "Done")

	require.NoError(t, ctrl.SetFavoritesOnly(true))
	assert.Equal(t, []string{"c2"}, ctrl.Board().CardIDs("New"))
	assert.Empty(t, ctrl.Board().CardIDs("Done"))

	assert.True(t, errors.Is(ctrl.SetColumnQuery("Nope", "x"), domain.ErrNotFound))
}

func TestSetColumnDisplay(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cards := newFakeCards(
		card("new", "b", "New", testutil.WithCreatedAt(old.AddDate(1, 0, 0))),
		card("old", "a", "New", testutil.WithCreatedAt(old)),
	)
	ctrl := startController(t, cards, newFakeColumns("New"), nil, Options{})

	col, err := ctrl.SetColumnDisplay(context.Background(), "New", domain.ShowOldest{})
	require.NoError(t, err)
	assert.Equal(t, domain.ShowOldest{}, col.Display)
	assert.Equal(t, []string{"old", "new"}, ctrl.Board().CardIDs("New"))
}

func TestCardChangedAndRemoved(t *testing.T) {
	ctrl := startController(t, newFakeCards(card("a", "a", "New")), newFakeColumns("New", "Done"), nil, Options{})

	require.NoError(t, ctrl.CardChanged(card("b", "b", "Done")))
	assert.Equal(t, []string{"b"}, ctrl.Board().CardIDs("Done"))

	require.NoError(t, ctrl.CardChanged(card("a", "renamed", "Done")))
	assert.Equal(t, []string{"b", "a"}, ctrl.Board().CardIDs("Done"))
	assert.Empty(t, ctrl.Board().CardIDs("New"))

	require.NoError(t, ctrl.CardRemoved("b"))
	assert.Equal(t, []string{"a"}, ctrl.Board().CardIDs("Done"))
	require.NoError(t, ctrl.CardRemoved("missing"))
}

func TestClose_DropsLateResults(t *testing.T) {
	cards := newFakeCards(card("c1", "a", "New"))
	cards.gate = make(chan struct{})
	ctrl, err := New(context.Background(), cards, newFakeColumns("New", "Done"), refusingLifecycle{t: t}, Options{})
	require.NoError(t, err)
	notes := ctrl.Subscribe()

	ticket, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", DestColumn: "Done"})
	require.NoError(t, err)
	require.NoError(t, ctrl.Close())

	outcome, err := waitTicket(t, ticket)
	assert.Equal(t, OutcomeDropped, outcome)
	assert.True(t, errors.Is(err, ErrClosed))

	close(cards.gate)
	assert.True(t, errors.Is(ctrl.OnDragStart(DragStart{Kind: DragCard}), ErrClosed))
	assert.True(t, errors.Is(ctrl.SetGlobalQuery("x"), ErrClosed))
	_, open := <-notes
	assert.False(t, open, "subscriptions are closed")
	assert.Equal(t, []string{"c1"}, ctrl.Board().CardIDs("Done"), "last projection stays readable")
	require.NoError(t, ctrl.Close())
}

func TestStoreTimeoutRollsBack(t *testing.T) {
	cards := newFakeCards(card("c1", "a", "New"))
	cards.gate = make(chan struct{})
	defer close(cards.gate)
	ctrl := startController(t, cards, newFakeColumns("New", "Done"), nil, Options{StoreTimeout: 20 * time.Millisecond})

	ticket, err := moveCard(t, ctrl, DragEvent{DraggableID: "c1", SourceColumn: "New", DestColumn: "Done"})
	require.NoError(t, err)

	outcome, err := waitTicket(t, ticket)
	assert.Equal(t, OutcomeRolledBack, outcome)
	assert.True(t, domain.IsTransient(err))
	assert.Equal(t, []string{"c1"}, ctrl.Board().CardIDs("New"))
}

func columnOrder(ctrl *Controller) []string {
	b := ctrl.Board()
	ids := make([]string, len(b.Columns))
	for i, v := range b.Columns {
		ids[i] = v.Column.ID
	}
	return ids
}
