package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/pipeline/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// storeErr wraps a driver error with op and tags it with the board error
// taxonomy: lock contention, I/O trouble and cancelled calls are transient,
// constraint violations are validation failures.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return domain.Unavailable(op, err)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_PROTOCOL:
			return domain.Unavailable(op, err)
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%s: %w", op, constraintErr(se))
		}
	}

	// database/sql reports a closed pool with an unexported error value.
	if strings.Contains(err.Error(), "database is closed") {
		return domain.Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintErr(se *sqlite.Error) error {
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &domain.ValidationError{Field: "status", Reason: "must reference an existing column"}
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return &domain.ValidationError{Field: "id", Reason: "already exists"}
	default:
		return &domain.ValidationError{Reason: se.Error()}
	}
}
