package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
)

// SQLiteColumnRepo implements ColumnRepo using a SQLite database.
type SQLiteColumnRepo struct {
	db db.DBTX
}

func NewSQLiteColumnRepo(conn db.DBTX) *SQLiteColumnRepo {
	return &SQLiteColumnRepo{db: conn}
}

const columnColumns = `id, title, icon, ord, display_kind, display_label, display_from, display_to`

func (r *SQLiteColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	kind, label, from, to := displayParts(c.Display)
	now := nowUTC()
	query := `INSERT INTO board_columns (` + columnColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Icon, c.Order, kind, label, from, to, now, now)
	if err != nil {
		return storeErr("inserting column", err)
	}
	return nil
}

func (r *SQLiteColumnRepo) GetByID(ctx context.Context, id string) (*domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM board_columns WHERE id = ?`, id)
	c, err := scanColumn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ColumnNotFound(id)
	}
	if err != nil {
		return nil, storeErr("getting column", err)
	}
	return c, nil
}

func (r *SQLiteColumnRepo) List(ctx context.Context) ([]*domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columnColumns+` FROM board_columns ORDER BY ord`)
	if err != nil {
		return nil, storeErr("listing columns", err)
	}
	defer rows.Close()

	cols := []*domain.Column{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, storeErr("scanning column", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating columns", err)
	}
	return cols, nil
}

func (r *SQLiteColumnRepo) Update(ctx context.Context, c *domain.Column) error {
	kind, label, from, to := displayParts(c.Display)
	query := `UPDATE board_columns SET title = ?, icon = ?, display_kind = ?, display_label = ?,
		display_from = ?, display_to = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, c.Title, c.Icon, kind, label, from, to, nowUTC(), c.ID)
	if err != nil {
		return storeErr("updating column", err)
	}
	return requireRow(res, domain.ColumnNotFound(c.ID))
}

func (r *SQLiteColumnRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ?`, id)
	if err != nil {
		return storeErr("deleting column", err)
	}
	return requireRow(res, domain.ColumnNotFound(id))
}

func (r *SQLiteColumnRepo) SetOrder(ctx context.Context, ids []string) error {
	// Park every row on a negative slot first so the unique index on ord
	// never sees two columns on the same value mid-rewrite.
	if _, err := r.db.ExecContext(ctx, `UPDATE board_columns SET ord = -1 - ord`); err != nil {
		return storeErr("parking column order", err)
	}
	for i, id := range ids {
		res, err := r.db.ExecContext(ctx, `UPDATE board_columns SET ord = ? WHERE id = ?`, i, id)
		if err != nil {
			return storeErr(fmt.Sprintf("ordering column %s", id), err)
		}
		if err := requireRow(res, domain.ColumnNotFound(id)); err != nil {
			return err
		}
	}
	return nil
}

func scanColumn(row rowScanner) (*domain.Column, error) {
	var c domain.Column
	var kind string
	var label, from, to sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &c.Icon, &c.Order, &kind, &label, &from, &to); err != nil {
		return nil, err
	}
	mode, err := domain.NewDisplayMode(domain.DisplayKind(kind), label.String, parseNullableTime(from), parseNullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("decoding display mode of column %s: %w", c.ID, err)
	}
	c.Display = mode
	return &c, nil
}

// displayParts flattens a DisplayMode into its stored columns.
func displayParts(m domain.DisplayMode) (kind string, label, from, to any) {
	switch d := m.(type) {
	case nil:
		return string(domain.DisplayNatural), nil, nil, nil
	case domain.ByLabel:
		return string(d.Kind()), d.Label, nil, nil
	case domain.ByDateRange:
		return string(d.Kind()), nil, nullableTimeToString(d.From), nullableTimeToString(d.To)
	default:
		return string(m.Kind()), nil, nil, nil
	}
}
