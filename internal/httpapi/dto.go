package httpapi

import (
	"time"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
)

type messageJSON struct {
	ID      string             `json:"id"`
	Sender  string             `json:"sender"`
	Content string             `json:"content"`
	Type    domain.MessageType `json:"type"`
	SentAt  time.Time          `json:"sent_at"`
}

type cardJSON struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   *string       `json:"description,omitempty"`
	Status        string        `json:"status"`
	Department    string        `json:"department"`
	Phone         *string       `json:"phone,omitempty"`
	Favorite      bool          `json:"favorite"`
	AssignedTo    *string       `json:"assigned_to,omitempty"`
	Collaborators []string      `json:"collaborators"`
	Labels        []string      `json:"labels"`
	Observations  *string       `json:"observations,omitempty"`
	Messages      []messageJSON `json:"messages"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toCardJSON(c *domain.Card) cardJSON {
	msgs := make([]messageJSON, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = messageJSON(m)
	}
	return cardJSON{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Status:        c.Status,
		Department:    c.Department,
		Phone:         c.Phone,
		Favorite:      c.Favorite,
		AssignedTo:    c.AssignedTo,
		Collaborators: nonNil(c.Collaborators),
		Labels:        nonNil(c.Labels),
		Observations:  c.Observations,
		Messages:      msgs,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toCardsJSON(cards []*domain.Card) []cardJSON {
	out := make([]cardJSON, len(cards))
	for i, c := range cards {
		out[i] = toCardJSON(c)
	}
	return out
}

type displayJSON struct {
	Kind  domain.DisplayKind `json:"kind"`
	Label string             `json:"label,omitempty"`
	From  *time.Time         `json:"from,omitempty"`
	To    *time.Time         `json:"to,omitempty"`
}

func toDisplayJSON(m domain.DisplayMode) displayJSON {
	out := displayJSON{Kind: domain.KindOf(m)}
	switch d := m.(type) {
	case domain.ByLabel:
		out.Label = d.Label
	case domain.ByDateRange:
		out.From, out.To = d.From, d.To
	}
	return out
}

func (d displayJSON) mode() (domain.DisplayMode, error) {
	return domain.NewDisplayMode(d.Kind, d.Label, d.From, d.To)
}

type columnJSON struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Icon    string      `json:"icon"`
	Order   int         `json:"order"`
	Display displayJSON `json:"display"`
}

func toColumnJSON(c *domain.Column) columnJSON {
	return columnJSON{
		ID:      c.ID,
		Title:   c.Title,
		Icon:    c.Icon,
		Order:   c.Order,
		Display: toDisplayJSON(c.Display),
	}
}

type columnViewJSON struct {
	columnJSON
	Query string     `json:"query,omitempty"`
	Total int        `json:"total"`
	Cards []cardJSON `json:"cards"`
}

type boardJSON struct {
	State         board.State       `json:"state"`
	Pending       int               `json:"pending"`
	GlobalQuery   string            `json:"global_query"`
	FavoritesOnly bool              `json:"favorites_only"`
	CardFilter    filter.CardFilter `json:"card_filter"`
	ColumnsLocked bool              `json:"columns_locked"`
	Columns       []columnViewJSON  `json:"columns"`
}

func toBoardJSON(b filter.Board, snap board.Snapshot) boardJSON {
	out := boardJSON{
		State:         snap.State,
		Pending:       snap.Pending,
		GlobalQuery:   snap.GlobalQuery,
		FavoritesOnly: snap.FavoritesOnly,
		CardFilter:    snap.CardFilter,
		ColumnsLocked: snap.ColumnsLocked,
		Columns:       make([]columnViewJSON, len(b.Columns)),
	}
	for i, v := range b.Columns {
		out.Columns[i] = columnViewJSON{
			columnJSON: toColumnJSON(v.Column),
			Query:      snap.ColumnQueries[v.Column.ID],
			Total:      v.Total,
			Cards:      toCardsJSON(v.Cards),
		}
	}
	return out
}

type txnJSON struct {
	board.Txn
	Error string `json:"error,omitempty"`
}

type snapshotJSON struct {
	State         board.State         `json:"state"`
	Pending       int                 `json:"pending"`
	Sequences     map[string][]string `json:"sequences"`
	ColumnQueries map[string]string   `json:"column_queries"`
	Txns          []txnJSON           `json:"txns"`
}

func toSnapshotJSON(s board.Snapshot) snapshotJSON {
	txns := make([]txnJSON, len(s.Txns))
	for i, t := range s.Txns {
		txns[i] = txnJSON{Txn: t}
		if t.Err != nil {
			txns[i].Error = t.Err.Error()
		}
	}
	return snapshotJSON{
		State:         s.State,
		Pending:       s.Pending,
		Sequences:     s.Sequences,
		ColumnQueries: s.ColumnQueries,
		Txns:          txns,
	}
}

type notificationJSON struct {
	board.Notification
	Error string `json:"error,omitempty"`
}

type ticketJSON struct {
	Outcome board.Outcome `json:"outcome"`
	Error   string        `json:"error,omitempty"`
}

type cardDraftJSON struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Status        string   `json:"status"`
	Department    string   `json:"department"`
	Phone         *string  `json:"phone"`
	Favorite      bool     `json:"favorite"`
	AssignedTo    *string  `json:"assigned_to"`
	Collaborators []string `json:"collaborators"`
	Labels        []string `json:"labels"`
	Observations  *string  `json:"observations"`
}

func (d cardDraftJSON) draft() domain.CardDraft {
	return domain.CardDraft(d)
}

type cardPatchJSON struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status"`
	Department    *string   `json:"department"`
	Phone         *string   `json:"phone"`
	Favorite      *bool     `json:"favorite"`
	AssignedTo    *string   `json:"assigned_to"`
	Collaborators *[]string `json:"collaborators"`
	Labels        *[]string `json:"labels"`
	Observations  *string   `json:"observations"`
}

func (p cardPatchJSON) patch() domain.CardPatch {
	return domain.CardPatch(p)
}

type columnDraftJSON struct {
	TitleChoice domain.TitleChoice `json:"title_choice"`
	CustomTitle string             `json:"custom_title"`
	Icon        string             `json:"icon"`
}

type deletionJSON struct {
	ColumnID   string              `json:"column_id"`
	Policy     domain.DeletePolicy `json:"policy"`
	FallbackID string              `json:"fallback_id,omitempty"`
	Reassigned int                 `json:"reassigned"`
}

type messageDraftJSON struct {
	Sender  string             `json:"sender"`
	Content string             `json:"content"`
	Type    domain.MessageType `json:"type"`
}

type queryJSON struct {
	Query         *string `json:"query"`
	FavoritesOnly *bool   `json:"favorites_only"`
}

type lockJSON struct {
	Locked bool `json:"locked"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
