package board

import "errors"

var (
	// ErrDragInProgress rejects a gesture start while another drag is active.
	ErrDragInProgress = errors.New("a drag is already in progress")
	// ErrMovePending rejects a second move of a card, or the deletion of a
	// column, while an earlier move touching it is still unconfirmed.
	ErrMovePending = errors.New("a move is still pending")
	// ErrColumnsLocked rejects column drags while the board is locked.
	ErrColumnsLocked = errors.New("columns are locked")
	// ErrColumnBusy rejects column changes that would overlap a column
	// create, delete or reorder still in flight.
	ErrColumnBusy = errors.New("a column operation is in flight")
	// ErrStaleGesture means a drop no longer matches the board, e.g. the
	// dragged card is not at the reported position.
	ErrStaleGesture = errors.New("gesture does not match the board")
	ErrClosed       = errors.New("board controller is closed")
)
