package board

import (
	"fmt"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
)

// DragKind tells column drags from card drags.
type DragKind string

const (
	DragColumn DragKind = "column"
	DragCard   DragKind = "card"
)

func (k DragKind) valid() bool {
	return k == DragColumn || k == DragCard
}

// DragStart opens a gesture. DraggableID is optional; when set, the drop is
// checked against it.
type DragStart struct {
	Kind        DragKind `json:"kind"`
	DraggableID string   `json:"draggable_id,omitempty"`
}

func (d DragStart) validate() error {
	if !d.Kind.valid() {
		return domain.Invalid("kind", fmt.Sprintf("must be %q or %q", DragColumn, DragCard))
	}
	return nil
}

// DragEvent closes a gesture. Card indices are positions in the visible,
// filtered sequence of their column. Column indices are positions in the
// column order. A Canceled drop had no destination.
type DragEvent struct {
	Kind         DragKind `json:"kind"`
	DraggableID  string   `json:"draggable_id,omitempty"`
	SourceIndex  int      `json:"source_index"`
	DestIndex    int      `json:"dest_index"`
	SourceColumn string   `json:"source_column,omitempty"`
	DestColumn   string   `json:"dest_column,omitempty"`
	Canceled     bool     `json:"canceled,omitempty"`
}

// State is the gesture state of the controller.
type State string

const (
	StateIdle           State = "idle"
	StateDraggingColumn State = "dragging_column"
	StateDraggingCard   State = "dragging_card"
	// StateReconciling means no drag is active but store writes are still
	// unconfirmed.
	StateReconciling State = "reconciling"
)

// NotificationKind classifies what a Notification reports.
type NotificationKind string

const (
	NotifyCardMoved           NotificationKind = "card_moved"
	NotifyMoveRolledBack      NotificationKind = "move_rolled_back"
	NotifyColumnsReordered    NotificationKind = "columns_reordered"
	NotifyColumnOrderReverted NotificationKind = "column_order_reverted"
	NotifyColumnCreated       NotificationKind = "column_created"
	NotifyColumnDeleted       NotificationKind = "column_deleted"
	NotifyColumnFailed        NotificationKind = "column_failed"
	NotifyReloaded            NotificationKind = "reloaded"
	NotifyReloadFailed        NotificationKind = "reload_failed"
)

// Notification is an outcome the user should hear about.
type Notification struct {
	Kind     NotificationKind `json:"kind"`
	CardID   string           `json:"card_id,omitempty"`
	ColumnID string           `json:"column_id,omitempty"`
	Message  string           `json:"message"`
	Err      error            `json:"-"`
	At       time.Time        `json:"at"`
}

// Failed reports whether the notification carries an error.
func (n Notification) Failed() bool {
	return n.Err != nil
}
