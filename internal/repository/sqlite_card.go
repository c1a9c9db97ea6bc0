package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
)

// SQLiteCardRepo implements CardRepo using a SQLite database.
type SQLiteCardRepo struct {
	db db.DBTX
}

func NewSQLiteCardRepo(conn db.DBTX) *SQLiteCardRepo {
	return &SQLiteCardRepo{db: conn}
}

const cardColumns = `id, title, description, status, department, phone, favorite, assigned_to, observations, created_at, updated_at`

func (r *SQLiteCardRepo) Create(ctx context.Context, c *domain.Card) error {
	query := `INSERT INTO cards (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Title,
		stringOrNil(c.Description),
		c.Status,
		c.Department,
		stringOrNil(c.Phone),
		boolToInt(c.Favorite),
		stringOrNil(c.AssignedTo),
		stringOrNil(c.Observations),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return storeErr("inserting card", err)
	}
	if err := r.writeSets(ctx, c); err != nil {
		return err
	}
	for _, m := range c.Messages {
		if err := r.insertMessage(ctx, c.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteCardRepo) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.CardNotFound(id)
	}
	if err != nil {
		return nil, storeErr("getting card", err)
	}
	cards := map[string]*domain.Card{c.ID: c}
	if err := r.attachDetails(ctx, cards, `WHERE card_id = ?`, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCardRepo) List(ctx context.Context) ([]*domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY rowid`)
	if err != nil {
		return nil, storeErr("listing cards", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	byID := make(map[string]*domain.Card)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, storeErr("scanning card", err)
		}
		cards = append(cards, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating cards", err)
	}
	if len(cards) == 0 {
		return cards, nil
	}
	if err := r.attachDetails(ctx, byID, ``); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *SQLiteCardRepo) CountByStatus(ctx context.Context, columnID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE status = ?`, columnID).Scan(&n); err != nil {
		return 0, storeErr("counting cards", err)
	}
	return n, nil
}

func (r *SQLiteCardRepo) Update(ctx context.Context, c *domain.Card) error {
	query := `UPDATE cards SET title = ?, description = ?, status = ?, department = ?, phone = ?,
		favorite = ?, assigned_to = ?, observations = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Title,
		stringOrNil(c.Description),
		c.Status,
		c.Department,
		stringOrNil(c.Phone),
		boolToInt(c.Favorite),
		stringOrNil(c.AssignedTo),
		stringOrNil(c.Observations),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return storeErr("updating card", err)
	}
	if err := requireRow(res, domain.CardNotFound(c.ID)); err != nil {
		return err
	}
	return r.writeSets(ctx, c)
}

func (r *SQLiteCardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return storeErr("deleting card", err)
	}
	return requireRow(res, domain.CardNotFound(id))
}

func (r *SQLiteCardRepo) ReassignStatus(ctx context.Context, from, to string, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE cards SET status = ?, updated_at = ? WHERE status = ?`, to, formatTime(at), from)
	if err != nil {
		return 0, storeErr("reassigning cards", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("reassigning cards", err)
	}
	return int(n), nil
}

func (r *SQLiteCardRepo) AppendMessage(ctx context.Context, cardID string, m domain.Message, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cards SET updated_at = ? WHERE id = ?`, formatTime(at), cardID)
	if err != nil {
		return storeErr("touching card", err)
	}
	if err := requireRow(res, domain.CardNotFound(cardID)); err != nil {
		return err
	}
	return r.insertMessage(ctx, cardID, m)
}

func (r *SQLiteCardRepo) insertMessage(ctx context.Context, cardID string, m domain.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO card_messages (id, card_id, sender, content, type, sent_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, cardID, m.Sender, m.Content, string(m.Type), formatTime(m.SentAt),
	)
	if err != nil {
		return storeErr("inserting message", err)
	}
	return nil
}

// writeSets replaces the label and collaborator rows of c.
func (r *SQLiteCardRepo) writeSets(ctx context.Context, c *domain.Card) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM card_labels WHERE card_id = ?`, c.ID); err != nil {
		return storeErr("clearing labels", err)
	}
	for _, l := range c.Labels {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO card_labels (card_id, label) VALUES (?, ?)`, c.ID, l); err != nil {
			return storeErr("inserting label", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM card_collaborators WHERE card_id = ?`, c.ID); err != nil {
		return storeErr("clearing collaborators", err)
	}
	for _, id := range c.Collaborators {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO card_collaborators (card_id, collaborator_id) VALUES (?, ?)`, c.ID, id); err != nil {
			return storeErr("inserting collaborator", err)
		}
	}
	return nil
}

// attachDetails loads labels, collaborators and messages for the given
// cards. where/args narrow the child-table scans to a single card.
func (r *SQLiteCardRepo) attachDetails(ctx context.Context, cards map[string]*domain.Card, where string, args ...any) error {
	err := r.eachRow(ctx, `SELECT card_id, label FROM card_labels `+where+` ORDER BY card_id, label`, args, func(rows *sql.Rows) error {
		var cardID, label string
		if err := rows.Scan(&cardID, &label); err != nil {
			return err
		}
		if c, ok := cards[cardID]; ok {
			c.Labels = append(c.Labels, label)
		}
		return nil
	})
	if err != nil {
		return storeErr("loading labels", err)
	}

	err = r.eachRow(ctx, `SELECT card_id, collaborator_id FROM card_collaborators `+where+` ORDER BY card_id, collaborator_id`, args, func(rows *sql.Rows) error {
		var cardID, collaborator string
		if err := rows.Scan(&cardID, &collaborator); err != nil {
			return err
		}
		if c, ok := cards[cardID]; ok {
			c.Collaborators = append(c.Collaborators, collaborator)
		}
		return nil
	})
	if err != nil {
		return storeErr("loading collaborators", err)
	}

	err = r.eachRow(ctx, `SELECT id, card_id, sender, content, type, sent_at FROM card_messages `+where+` ORDER BY card_id, sent_at, rowid`, args, func(rows *sql.Rows) error {
		var m domain.Message
		var cardID, typ, sentAt string
		if err := rows.Scan(&m.ID, &cardID, &m.Sender, &m.Content, &typ, &sentAt); err != nil {
			return err
		}
		t, err := parseTime(sentAt)
		if err != nil {
			return fmt.Errorf("parsing sent_at: %w", err)
		}
		m.Type = domain.MessageType(typ)
		m.SentAt = t
		if c, ok := cards[cardID]; ok {
			c.Messages = append(c.Messages, m)
		}
		return nil
	})
	if err != nil {
		return storeErr("loading messages", err)
	}
	return nil
}

func (r *SQLiteCardRepo) eachRow(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	var description, phone, assignedTo, observations sql.NullString
	var favorite int
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.Title, &description, &c.Status, &c.Department, &phone,
		&favorite, &assignedTo, &observations, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Description = nullableString(description)
	c.Phone = nullableString(phone)
	c.AssignedTo = nullableString(assignedTo)
	c.Observations = nullableString(observations)
	c.Favorite = intToBool(favorite)
	c.Labels = []string{}
	c.Collaborators = []string{}
	c.Messages = []domain.Message{}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("reading affected rows", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
