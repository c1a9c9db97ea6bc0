// Package board runs the interactive board: drag gestures, optimistic card
// moves with rollback, column reordering and the visible projection.
//
// A Controller is an actor. One goroutine owns the working copy and applies
// commands in arrival order; store calls run on their own goroutines and
// post their results back as commands.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
)

// CardStore is the part of the card store the controller writes through.
type CardStore interface {
	List(ctx context.Context) ([]*domain.Card, error)
	Update(ctx context.Context, id string, p domain.CardPatch) (*domain.Card, error)
}

// ColumnStore is the part of the column registry the controller needs.
type ColumnStore interface {
	List(ctx context.Context) ([]*domain.Column, error)
	Reorder(ctx context.Context, ids []string) error
	SetDisplay(ctx context.Context, id string, m domain.DisplayMode) (*domain.Column, error)
}

// Lifecycle creates and deletes columns.
type Lifecycle interface {
	Create(ctx context.Context, d domain.ColumnDraft) (*domain.Column, error)
	Delete(ctx context.Context, id string) (*domain.ColumnDeletion, error)
}

const DefaultStoreTimeout = 5 * time.Second

type Options struct {
	// StoreTimeout bounds each background store call. Zero means
	// DefaultStoreTimeout.
	StoreTimeout time.Duration
	LockColumns  bool
	Logger       *slog.Logger
}

// Snapshot exposes the controller state for inspection. It is shared with
// other readers and must be treated as read-only.
type Snapshot struct {
	State   State `json:"state"`
	Pending int   `json:"pending"`
	// Columns in working order.
	Columns []*domain.Column `json:"columns"`
	// Cards in store order, with working statuses.
	Cards []*domain.Card `json:"cards"`
	// Sequences holds each column's full working card order.
	Sequences     map[string][]string `json:"sequences"`
	Txns          []Txn               `json:"txns"`
	GlobalQuery   string              `json:"global_query"`
	ColumnQueries map[string]string   `json:"column_queries"`
	FavoritesOnly bool                `json:"favorites_only"`
	CardFilter    filter.CardFilter   `json:"card_filter"`
	ColumnsLocked bool                `json:"columns_locked"`
}

type message struct {
	fn    func() error
	reply chan error
}

type resolution struct {
	ticket  *Ticket
	outcome Outcome
	err     error
}

// Controller is safe for concurrent use.
type Controller struct {
	cards     CardStore
	columns   ColumnStore
	lifecycle Lifecycle
	timeout   time.Duration
	logger    *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	cmdCh     chan message
	stopped   chan struct{}
	closeOnce sync.Once
	notes     broadcaster

	w        working
	resolved []resolution
	outbox   []Notification

	mu    sync.RWMutex
	board filter.Board
	snap  Snapshot
}

// New starts a controller and loads the board from the stores.
func New(ctx context.Context, cards CardStore, columns ColumnStore, lifecycle Lifecycle, opts Options) (*Controller, error) {
	timeout := opts.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cards:     cards,
		columns:   columns,
		lifecycle: lifecycle,
		timeout:   timeout,
		logger:    logger,
		ctx:       loopCtx,
		cancel:    cancel,
		cmdCh:     make(chan message, 64),
		stopped:   make(chan struct{}),
		w:         newWorking(),
	}
	c.w.locked = opts.LockColumns
	c.publish()
	go c.run()

	if err := c.Reload(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("loading board: %w", err)
	}
	return c, nil
}

func (c *Controller) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.ctx.Done():
			c.dropPending()
			c.publish()
			c.flush()
			return
		case msg := <-c.cmdCh:
			if c.ctx.Err() != nil {
				continue
			}
			err := msg.fn()
			c.publish()
			c.flush()
			if msg.reply != nil {
				msg.reply <- err
			}
		}
	}
}

// exec runs fn on the controller loop and waits for it.
func (c *Controller) exec(fn func() error) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	reply := make(chan error, 1)
	select {
	case c.cmdCh <- message{fn: fn, reply: reply}:
	case <-c.ctx.Done():
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-c.ctx.Done():
		return ErrClosed
	}
}

// post queues fn on the loop without waiting. After Close it is dropped.
func (c *Controller) post(fn func()) {
	select {
	case c.cmdCh <- message{fn: func() error { fn(); return nil }}:
	case <-c.ctx.Done():
	}
}

// async runs call off the loop under the store timeout and applies the
// func it returns back on the loop.
func (c *Controller) async(call func(ctx context.Context) func()) {
	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
		defer cancel()
		apply := call(ctx)
		c.post(apply)
	}()
}

func (c *Controller) publish() {
	b, snap := c.w.publishable()
	c.mu.Lock()
	c.board = b
	c.snap = snap
	c.mu.Unlock()
}

func (c *Controller) notify(n Notification) {
	n.At = time.Now().UTC()
	attrs := []any{"kind", string(n.Kind)}
	if n.CardID != "" {
		attrs = append(attrs, "card_id", n.CardID)
	}
	if n.ColumnID != "" {
		attrs = append(attrs, "column_id", n.ColumnID)
	}
	if n.Err != nil {
		attrs = append(attrs, "error", n.Err.Error())
		c.logger.Warn(n.Message, attrs...)
	} else {
		c.logger.Info(n.Message, attrs...)
	}
	c.outbox = append(c.outbox, n)
}

func (c *Controller) track(t *Ticket) *Ticket {
	c.w.tickets[t] = struct{}{}
	return t
}

// settle queues a ticket resolution. Tickets and notifications go out only
// after the projection that reflects them is published.
func (c *Controller) settle(t *Ticket, o Outcome, err error) {
	if t == nil {
		return
	}
	delete(c.w.tickets, t)
	c.resolved = append(c.resolved, resolution{ticket: t, outcome: o, err: err})
}

func (c *Controller) flush() {
	for _, r := range c.resolved {
		r.ticket.resolve(r.outcome, r.err)
	}
	c.resolved = c.resolved[:0]
	for _, n := range c.outbox {
		c.notes.broadcast(n)
	}
	c.outbox = c.outbox[:0]
}

func (c *Controller) dropPending() {
	for t := range c.w.tickets {
		c.settle(t, OutcomeDropped, ErrClosed)
	}
	c.w.drag = nil
}

// Board returns the visible projection as of the last applied command.
func (c *Controller) Board() filter.Board {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Subscribe returns a channel of notifications. It is closed by Unsubscribe
// or Close.
func (c *Controller) Subscribe() <-chan Notification {
	return c.notes.subscribe()
}

func (c *Controller) Unsubscribe(ch <-chan Notification) {
	c.notes.unsubscribe(ch)
}

// Close stops the controller. Pending tickets settle as OutcomeDropped and
// store results that arrive later are discarded. In-flight store calls are
// not waited for.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.stopped
		c.notes.close()
	})
	return nil
}
