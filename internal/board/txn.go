package board

import (
	"context"
	"time"
)

// TxnState is the lifecycle of a persisted move.
type TxnState string

const (
	TxnPending    TxnState = "pending"
	TxnCommitted  TxnState = "committed"
	TxnRolledBack TxnState = "rolled-back"
)

// Txn records one cross-column card move awaiting, or past, store
// confirmation. Positions are indices in the working sequences.
type Txn struct {
	CardID    string    `json:"card_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	FromIndex int       `json:"from_index"`
	ToIndex   int       `json:"to_index"`
	State     TxnState  `json:"state"`
	StartedAt time.Time `json:"started_at"`
	Err       error     `json:"-"`

	ticket *Ticket
}

// Outcome is how a drop ended.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeNoop       Outcome = "noop"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeReordered  Outcome = "reordered"
	OutcomeCommitted  Outcome = "committed"
	OutcomeRolledBack Outcome = "rolled_back"
	// OutcomeDropped means the controller closed before the store answered.
	OutcomeDropped Outcome = "dropped"
)

// Ticket tracks the persistence of a drop. Drops that need no store write
// come back already settled.
type Ticket struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan struct{}), outcome: OutcomePending}
}

func settledTicket(o Outcome) *Ticket {
	t := newTicket()
	t.resolve(o, nil)
	return t
}

// resolve must be called exactly once, from the controller loop.
func (t *Ticket) resolve(o Outcome, err error) {
	t.outcome = o
	t.err = err
	close(t.done)
}

// Done is closed once the outcome is known.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the ticket settles or ctx ends.
func (t *Ticket) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, t.err
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// Outcome returns the settled outcome, or OutcomePending.
func (t *Ticket) Outcome() Outcome {
	select {
	case <-t.done:
		return t.outcome
	default:
		return OutcomePending
	}
}

// Err returns the store error behind a rollback, if any.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
