package board

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fakeCards is an in-memory card store. When gate is set, Update blocks
// until a value arrives on it.
type fakeCards struct {
	mu      sync.Mutex
	cards   []*domain.Card
	failErr error
	gate    chan struct{}
	updates atomic.Int32
}

func newFakeCards(cards ...*domain.Card) *fakeCards {
	return &fakeCards{cards: cards}
}

func (f *fakeCards) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

func (f *fakeCards) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = slices.DeleteFunc(f.cards, func(c *domain.Card) bool { return c.ID == id })
}

func (f *fakeCards) status(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.ID == id {
			return c.Status
		}
	}
	return ""
}

func (f *fakeCards) List(context.Context) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Card, len(f.cards))
	for i, c := range f.cards {
		out[i] = c.Clone()
	}
	return out, nil
}

func (f *fakeCards) Update(ctx context.Context, id string, p domain.CardPatch) (*domain.Card, error) {
	f.updates.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, domain.Unavailable("updating card", ctx.Err())
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, c := range f.cards {
		if c.ID == id {
			p.Apply(c)
			c.UpdatedAt = time.Now().UTC()
			return c.Clone(), nil
		}
	}
	return nil, domain.CardNotFound(id)
}

type fakeColumns struct {
	mu      sync.Mutex
	columns []*domain.Column
	failErr error
	gate    chan struct{}
	orders  [][]string
}

func newFakeColumns(ids ...string) *fakeColumns {
	f := &fakeColumns{}
	for i, id := range ids {
		f.columns = append(f.columns, testutil.NewTestColumn(id, testutil.WithOrder(i)))
	}
	return f
}

func (f *fakeColumns) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

func (f *fakeColumns) saved() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.orders)
}

func (f *fakeColumns) List(context.Context) ([]*domain.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Column, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.Clone()
	}
	return out, nil
}

func (f *fakeColumns) Reorder(ctx context.Context, ids []string) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.Unavailable("reordering columns", ctx.Err())
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	byID := map[string]*domain.Column{}
	for _, c := range f.columns {
		byID[c.ID] = c
	}
	next := make([]*domain.Column, 0, len(ids))
	for i, id := range ids {
		c, ok := byID[id]
		if !ok {
			return domain.ErrInvalidPermutation
		}
		c.Order = i
		next = append(next, c)
	}
	f.columns = next
	f.orders = append(f.orders, slices.Clone(ids))
	return nil
}

func (f *fakeColumns) SetDisplay(_ context.Context, id string, m domain.DisplayMode) (*domain.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.columns {
		if c.ID == id {
			c.Display = m
			return c.Clone(), nil
		}
	}
	return nil, domain.ColumnNotFound(id)
}

// refusingLifecycle fails the test if the controller reaches the store.
type refusingLifecycle struct {
	t *testing.T
}

func (l refusingLifecycle) Create(context.Context, domain.ColumnDraft) (*domain.Column, error) {
	l.t.Error("unexpected column create")
	return nil, errors.New("unexpected")
}

func (l refusingLifecycle) Delete(context.Context, string) (*domain.ColumnDeletion, error) {
	l.t.Error("unexpected column delete")
	return nil, errors.New("unexpected")
}

func startController(t *testing.T, cards CardStore, columns ColumnStore, lifecycle Lifecycle, opts Options) *Controller {
	t.Helper()
	if lifecycle == nil {
		lifecycle = refusingLifecycle{t: t}
	}
	ctrl, err := New(context.Background(), cards, columns, lifecycle, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl
}

func waitTicket(t *testing.T, ticket *Ticket) (Outcome, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := ticket.Wait(ctx)
	require.NoError(t, ctx.Err(), "ticket did not settle")
	return outcome, err
}

// nextNotification returns the first notification of the given kind.
func nextNotification(t *testing.T, ch <-chan Notification, kind NotificationKind) Notification {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case n, ok := <-ch:
			require.True(t, ok, "notification channel closed")
			if n.Kind == kind {
				return n
			}
		case <-timeout:
			t.Fatalf("no %s notification", kind)
			return Notification{}
		}
	}
}

func moveCard(t *testing.T, ctrl *Controller, ev DragEvent) (*Ticket, error) {
	t.Helper()
	require.NoError(t, ctrl.OnDragStart(DragStart{Kind: DragCard, DraggableID: ev.DraggableID}))
	ev.Kind = DragCard
	return ctrl.OnDragEnd(ev)
}
