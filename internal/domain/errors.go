package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores, the lifecycle manager and the board.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidPermutation = errors.New("invalid column permutation")
	ErrColumnNotEmpty     = errors.New("column still holds cards")
)

// ValidationError describes bad user input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError names the entity and id that could not be located. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CardNotFound returns the NotFound error for a card id.
func CardNotFound(id string) error {
	return &NotFoundError{Entity: "card", ID: id}
}

// ColumnNotFound returns the NotFound error for a column id.
func ColumnNotFound(id string) error {
	return &NotFoundError{Entity: "column", ID: id}
}

// Unavailable marks err as a transient store failure while keeping it in the chain.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// IsTransient reports whether the user may simply re-attempt the operation.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
