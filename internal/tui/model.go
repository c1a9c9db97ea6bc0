// Package tui is the interactive terminal board. Keyboard gestures drive the
// board controller the same way pointer drags do in a browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the board controller surface the TUI drives.
type Controller interface {
	Board() filter.Board
	Snapshot() board.Snapshot
	OnDragStart(d board.DragStart) error
	OnDragEnd(ev board.DragEvent) (*board.Ticket, error)
	SetGlobalQuery(q string) error
	SetFavoritesOnly(on bool) error
	SetColumnsLocked(locked bool) error
	CardChanged(card *domain.Card) error
	CardRemoved(id string) error
	Reload(ctx context.Context) error
	Subscribe() <-chan board.Notification
	Unsubscribe(ch <-chan board.Notification)
}

// Cards is the card store surface the TUI writes through.
type Cards interface {
	ToggleFavorite(ctx context.Context, id string) (*domain.Card, error)
}

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeMove
)

// grab is a card picked up in move mode. col and index are the drop target
// in visible coordinates, with the grabbed card left out of the target.
type grab struct {
	cardID string
	from   string
	col    int
	index  int
}

type (
	noteMsg struct {
		note board.Notification
		ok   bool
	}
	settledMsg struct {
		what    string
		outcome board.Outcome
		err     error
	}
	favoriteMsg struct {
		id   string
		card *domain.Card
		err  error
	}
	reloadedMsg struct{ err error }
)

type Model struct {
	ctrl   Controller
	cards  Cards
	keys   keyMap
	search textinput.Model
	notes  <-chan board.Notification

	mode     mode
	col, row int
	grab     *grab
	showHelp bool

	status    string
	statusErr bool

	width, height int
}

// New builds the board model and subscribes it to controller notifications.
// Close releases the subscription.
func New(ctrl Controller, cards Cards) *Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, department or phone"
	ti.CharLimit = 80

	return &Model{
		ctrl:   ctrl,
		cards:  cards,
		keys:   defaultKeys(),
		search: ti,
		notes:  ctrl.Subscribe(),
	}
}

func (m *Model) Close() {
	m.ctrl.Unsubscribe(m.notes)
}

func (m *Model) Init() tea.Cmd {
	return m.listen()
}

func (m *Model) listen() tea.Cmd {
	ch := m.notes
	return func() tea.Msg {
		n, ok := <-ch
		return noteMsg{note: n, ok: ok}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case noteMsg:
		if !msg.ok {
			return m, nil
		}
		m.setStatus(msg.note.Message, msg.note.Failed())
		m.clampCursor()
		return m, m.listen()

	case settledMsg:
		switch msg.outcome {
		case board.OutcomeCommitted:
			m.setStatus(msg.what+" saved", false)
		case board.OutcomeRolledBack, board.OutcomeDropped:
			m.setStatus(fmt.Sprintf("%s undone: %v", msg.what, msg.err), true)
		}
		m.clampCursor()
		return m, nil

	case favoriteMsg:
		if errors.Is(msg.err, domain.ErrNotFound) {
			m.setStatus("card no longer exists", true)
			m.fail(m.ctrl.CardRemoved(msg.id))
			m.clampCursor()
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.fail(m.ctrl.CardChanged(msg.card))
		m.clampCursor()
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.setStatus("reload failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("board reloaded", false)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeMove:
			return m.updateMove(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.ctrl.Board()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.ShiftLeft):
		return m, m.shiftCard(b, -1)
	case key.Matches(msg, m.keys.ShiftRight):
		return m, m.shiftCard(b, 1)
	case key.Matches(msg, m.keys.Left):
		m.col--
	case key.Matches(msg, m.keys.Right):
		m.col++
	case key.Matches(msg, m.keys.Up):
		m.row--
	case key.Matches(msg, m.keys.Down):
		m.row++
	case key.Matches(msg, m.keys.Grab):
		m.startGrab(b)
	case key.Matches(msg, m.keys.ColumnLeft):
		return m, m.moveColumn(b, -1)
	case key.Matches(msg, m.keys.ColumnRight):
		return m, m.moveColumn(b, 1)
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.ctrl.Snapshot().GlobalQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Favorites):
		on := !m.ctrl.Snapshot().FavoritesOnly
		if !m.fail(m.ctrl.SetFavoritesOnly(on)) {
			m.setStatus(onOff("favorites only", on), false)
		}
	case key.Matches(msg, m.keys.Lock):
		locked := !m.ctrl.Snapshot().ColumnsLocked
		if !m.fail(m.ctrl.SetColumnsLocked(locked)) {
			m.setStatus(onOff("column lock", locked), false)
		}
	case key.Matches(msg, m.keys.Star):
		if card := selectedCard(b, m.col, m.row); card != nil {
			return m, m.toggleFavorite(card.ID)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}
	m.clampCursor()
	return m, nil
}

// updateSearch filters the board live as the query is typed. Enter keeps the
// query; esc clears it.
func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Drop):
		m.mode = modeNormal
		m.search.Blur()
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.search.Blur()
		m.search.SetValue("")
		m.fail(m.ctrl.SetGlobalQuery(""))
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.fail(m.ctrl.SetGlobalQuery(m.search.Value()))
	m.clampCursor()
	return m, cmd
}

func (m *Model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.ctrl.Board()
	g := m.grab
	switch {
	case key.Matches(msg, m.keys.Cancel):
		_, err := m.ctrl.OnDragEnd(board.DragEvent{Kind: board.DragCard, DraggableID: g.cardID, Canceled: true})
		m.endGrab()
		if !m.fail(err) {
			m.setStatus("move canceled", false)
		}
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		return m, m.drop(b)
	case key.Matches(msg, m.keys.Left):
		g.col--
	case key.Matches(msg, m.keys.Right):
		g.col++
	case key.Matches(msg, m.keys.Up):
		g.index--
	case key.Matches(msg, m.keys.Down):
		g.index++
	case key.Matches(msg, m.keys.Quit):
		_, _ = m.ctrl.OnDragEnd(board.DragEvent{Kind: board.DragCard, DraggableID: g.cardID, Canceled: true})
		m.endGrab()
		return m, tea.Quit
	}
	g.col = clamp(g.col, 0, len(b.Columns)-1)
	g.index = clamp(g.index, 0, len(dropTargets(b, g.col, g.cardID)))
	return m, nil
}

func (m *Model) startGrab(b filter.Board) {
	card := selectedCard(b, m.col, m.row)
	if card == nil {
		return
	}
	if m.fail(m.ctrl.OnDragStart(board.DragStart{Kind: board.DragCard, DraggableID: card.ID})) {
		return
	}
	m.mode = modeMove
	m.grab = &grab{cardID: card.ID, from: card.Status, col: m.col, index: m.row}
	m.setStatus("moving "+card.Title, false)
}

func (m *Model) drop(b filter.Board) tea.Cmd {
	g := m.grab
	dst := b.Columns[g.col].Column.ID
	ticket, err := m.ctrl.OnDragEnd(board.DragEvent{
		Kind:         board.DragCard,
		DraggableID:  g.cardID,
		SourceColumn: g.from,
		DestColumn:   dst,
		DestIndex:    g.index,
	})
	m.endGrab()
	if m.fail(err) {
		return nil
	}
	m.follow(g.cardID, g.col)
	return awaitTicket(ticket, "move")
}

func (m *Model) endGrab() {
	m.mode = modeNormal
	m.grab = nil
}

// shiftCard sends the selected card to the end of the adjacent column in
// one gesture.
func (m *Model) shiftCard(b filter.Board, dir int) tea.Cmd {
	card := selectedCard(b, m.col, m.row)
	target := m.col + dir
	if card == nil || target < 0 || target >= len(b.Columns) {
		return nil
	}
	if m.fail(m.ctrl.OnDragStart(board.DragStart{Kind: board.DragCard, DraggableID: card.ID})) {
		return nil
	}
	ticket, err := m.ctrl.OnDragEnd(board.DragEvent{
		Kind:         board.DragCard,
		DraggableID:  card.ID,
		SourceColumn: b.Columns[m.col].Column.ID,
		DestColumn:   b.Columns[target].Column.ID,
		DestIndex:    len(b.Columns[target].Cards),
	})
	if m.fail(err) {
		return nil
	}
	m.follow(card.ID, target)
	return awaitTicket(ticket, "move")
}

func (m *Model) moveColumn(b filter.Board, dir int) tea.Cmd {
	if len(b.Columns) == 0 {
		return nil
	}
	target := clamp(m.col+dir, 0, len(b.Columns)-1)
	id := b.Columns[m.col].Column.ID
	if m.fail(m.ctrl.OnDragStart(board.DragStart{Kind: board.DragColumn, DraggableID: id})) {
		return nil
	}
	ticket, err := m.ctrl.OnDragEnd(board.DragEvent{
		Kind:        board.DragColumn,
		DraggableID: id,
		SourceIndex: m.col,
		DestIndex:   target,
	})
	if m.fail(err) {
		return nil
	}
	m.col = target
	return awaitTicket(ticket, "column order")
}

func (m *Model) toggleFavorite(id string) tea.Cmd {
	cards := m.cards
	return func() tea.Msg {
		card, err := cards.ToggleFavorite(context.Background(), id)
		return favoriteMsg{id: id, card: card, err: err}
	}
}

func (m *Model) reload() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return reloadedMsg{err: ctrl.Reload(context.Background())}
	}
}

// follow puts the cursor on card in column col after a move.
func (m *Model) follow(cardID string, col int) {
	b := m.ctrl.Board()
	if col >= len(b.Columns) {
		return
	}
	m.col = col
	if i := slices.Index(b.CardIDs(b.Columns[col].Column.ID), cardID); i >= 0 {
		m.row = i
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	b := m.ctrl.Board()
	m.col = clamp(m.col, 0, len(b.Columns)-1)
	if len(b.Columns) == 0 {
		m.row = 0
		return
	}
	m.row = clamp(m.row, 0, len(b.Columns[m.col].Cards)-1)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// fail shows err in the status line and reports whether there was one.
func (m *Model) fail(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, board.ErrColumnsLocked):
		m.setStatus("columns are locked (x to unlock)", true)
	case errors.Is(err, board.ErrMovePending):
		m.setStatus("that card is still being saved", true)
	case errors.Is(err, board.ErrColumnBusy):
		m.setStatus("the column order is still being saved", true)
	default:
		m.setStatus(err.Error(), true)
	}
	return true
}

func awaitTicket(t *board.Ticket, what string) tea.Cmd {
	return func() tea.Msg {
		<-t.Done()
		return settledMsg{what: what, outcome: t.Outcome(), err: t.Err()}
	}
}

func selectedCard(b filter.Board, col, row int) *domain.Card {
	if col < 0 || col >= len(b.Columns) {
		return nil
	}
	cards := b.Columns[col].Cards
	if row < 0 || row >= len(cards) {
		return nil
	}
	return cards[row]
}

// dropTargets lists the visible cards of column col a drop can land between.
func dropTargets(b filter.Board, col int, grabbed string) []string {
	if col < 0 || col >= len(b.Columns) {
		return nil
	}
	return slices.DeleteFunc(b.CardIDs(b.Columns[col].Column.ID), func(id string) bool { return id == grabbed })
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

func onOff(what string, on bool) string {
	if on {
		return what + " on"
	}
	return what + " off"
}
