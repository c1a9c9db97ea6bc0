// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and the returned Cmds are drained in place, so
// no tea.Program is needed. A Cmd that does not return within the driver's
// timeout is abandoned: models that wait on channels (notifications, store
// confirmations) keep working, the late message is simply never delivered.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may drain.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates message factories, which return at once, from
// Cmds blocked on timers or channels.
const DefaultCmdTimeout = 10 * time.Millisecond

type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.QuitMsg is seen.
	Quitting bool

	cmdTimeout time.Duration
}

type Option func(*Driver)

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout changes how long a Cmd may block before it is abandoned.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// New creates a Driver. Call DrainInit to process the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Press sends a named key: "enter", "esc", "left", "shift+right", "ctrl+c",
// or a single printable character.
func (d *Driver) Press(name string) {
	d.T.Helper()
	msg, ok := keyMsg(name)
	if !ok {
		d.T.Fatalf("teatest: unknown key %q", name)
	}
	d.Send(msg)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

var namedKeys = map[string]tea.KeyType{
	"enter":       tea.KeyEnter,
	"esc":         tea.KeyEsc,
	"up":          tea.KeyUp,
	"down":        tea.KeyDown,
	"left":        tea.KeyLeft,
	"right":       tea.KeyRight,
	"shift+left":  tea.KeyShiftLeft,
	"shift+right": tea.KeyShiftRight,
	"backspace":   tea.KeyBackspace,
	"ctrl+c":      tea.KeyCtrlC,
	"space":       tea.KeySpace,
}

func keyMsg(name string) (tea.KeyMsg, bool) {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}, true
	}
	if r := []rune(name); len(r) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: r}, true
	}
	return tea.KeyMsg{}, false
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := d.run(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

func (d *Driver) run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.cmdTimeout):
		return nil
	}
}

// isCursorBlink detects the unexported blink messages of bubbles/cursor,
// which chain into timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
