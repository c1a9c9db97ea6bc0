package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateDensifyColumnOrder(db); err != nil {
		return fmt.Errorf("densifying column order: %w", err)
	}
	return nil
}

// migrateDensifyColumnOrder rewrites columns.ord to 0..n-1 when an older
// database left gaps. It is a no-op on a dense registry.
func migrateDensifyColumnOrder(db *sql.DB) error {
	ctx := context.Background()

	var count, maxOrd, minOrd int
	row := db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MAX(ord), -1), COALESCE(MIN(ord), 0) FROM board_columns`)
	if err := row.Scan(&count, &maxOrd, &minOrd); err != nil {
		return fmt.Errorf("reading column order bounds: %w", err)
	}
	if count == 0 || (minOrd == 0 && maxOrd == count-1) {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM board_columns ORDER BY ord, created_at`)
	if err != nil {
		return fmt.Errorf("listing columns: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning column id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}

	// Park every row on a negative slot first so the unique index on ord
	// never sees two columns on the same value mid-rewrite.
	if _, err := tx.ExecContext(ctx, `UPDATE board_columns SET ord = -1 - ord`); err != nil {
		return fmt.Errorf("parking column order: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE board_columns SET ord = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("renumbering column %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing column order migration: %w", err)
	}
	committed = true
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS board_columns (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		icon          TEXT NOT NULL,
		ord           INTEGER NOT NULL,
		display_kind  TEXT NOT NULL DEFAULT ''
		              CHECK(display_kind IN ('','oldest','newest','label','date_range')),
		display_label TEXT,
		display_from  TEXT,
		display_to    TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_board_columns_ord ON board_columns(ord)`,

	`CREATE TABLE IF NOT EXISTS cards (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT,
		status       TEXT NOT NULL REFERENCES board_columns(id),
		department   TEXT NOT NULL DEFAULT '',
		phone        TEXT,
		favorite     INTEGER NOT NULL DEFAULT 0,
		assigned_to  TEXT,
		observations TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cards_status ON cards(status)`,

	`CREATE TABLE IF NOT EXISTS card_labels (
		card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		label   TEXT NOT NULL,
		PRIMARY KEY (card_id, label)
	)`,

	`CREATE TABLE IF NOT EXISTS card_collaborators (
		card_id         TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		collaborator_id TEXT NOT NULL,
		PRIMARY KEY (card_id, collaborator_id)
	)`,

	`CREATE TABLE IF NOT EXISTS card_messages (
		id       TEXT PRIMARY KEY,
		card_id  TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		sender   TEXT NOT NULL DEFAULT '',
		content  TEXT NOT NULL,
		type     TEXT NOT NULL DEFAULT 'text'
		         CHECK(type IN ('text','audio','image','file')),
		sent_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_card_messages_card ON card_messages(card_id)`,
}
