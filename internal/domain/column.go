package domain

import (
	"fmt"
	"strings"
	"time"
)

// Column is a status stage of the board. Order is dense across the
// registry: 0 for the leftmost column, n-1 for the rightmost.
type Column struct {
	ID      string
	Title   string
	Icon    string
	Order   int
	Display DisplayMode
}

func (c *Column) Validate() error {
	if c.ID == "" {
		return Invalid("id", "is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return Invalid("title", "is required")
	}
	if c.Icon == "" {
		return Invalid("icon", "is required")
	}
	return nil
}

func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// DisplayKind is the stored discriminator of a DisplayMode.
type DisplayKind string

const (
	DisplayNatural   DisplayKind = ""
	DisplayOldest    DisplayKind = "oldest"
	DisplayNewest    DisplayKind = "newest"
	DisplayLabel     DisplayKind = "label"
	DisplayDateRange DisplayKind = "date_range"
)

// DisplayMode selects how a column presents its cards. A nil DisplayMode
// keeps the store's natural order. The set of implementations is closed.
type DisplayMode interface {
	Kind() DisplayKind
	isDisplayMode()
}

// ShowOldest sorts the column by creation time, oldest first.
type ShowOldest struct{}

// ShowNewest sorts the column by creation time, newest first.
type ShowNewest struct{}

// ByLabel keeps only cards carrying Label.
type ByLabel struct {
	Label string
}

// ByDateRange keeps only cards created inside [From, To]. A nil bound is open.
type ByDateRange struct {
	From *time.Time
	To   *time.Time
}

func (ShowOldest) Kind() DisplayKind  { return DisplayOldest }
func (ShowNewest) Kind() DisplayKind  { return DisplayNewest }
func (ByLabel) Kind() DisplayKind     { return DisplayLabel }
func (ByDateRange) Kind() DisplayKind { return DisplayDateRange }

func (ShowOldest) isDisplayMode()  {}
func (ShowNewest) isDisplayMode()  {}
func (ByLabel) isDisplayMode()     {}
func (ByDateRange) isDisplayMode() {}

// Contains reports whether t falls inside the range, bounds inclusive.
func (r ByDateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// KindOf returns the discriminator of m, DisplayNatural for nil.
func KindOf(m DisplayMode) DisplayKind {
	if m == nil {
		return DisplayNatural
	}
	return m.Kind()
}

// NewDisplayMode builds a DisplayMode from its stored parts.
func NewDisplayMode(kind DisplayKind, label string, from, to *time.Time) (DisplayMode, error) {
	switch kind {
	case DisplayNatural:
		return nil, nil
	case DisplayOldest:
		return ShowOldest{}, nil
	case DisplayNewest:
		return ShowNewest{}, nil
	case DisplayLabel:
		if strings.TrimSpace(label) == "" {
			return nil, Invalid("label", "is required for label display")
		}
		return ByLabel{Label: label}, nil
	case DisplayDateRange:
		if from != nil && to != nil && from.After(*to) {
			return nil, Invalid("date range", "must start before it ends")
		}
		return ByDateRange{From: from, To: to}, nil
	default:
		return nil, Invalid("display", fmt.Sprintf("unknown mode %q", kind))
	}
}

// DescribeDisplay renders m for listings.
func DescribeDisplay(m DisplayMode) string {
	switch d := m.(type) {
	case nil:
		return "natural"
	case ShowOldest:
		return "oldest first"
	case ShowNewest:
		return "newest first"
	case ByLabel:
		return "label " + d.Label
	case ByDateRange:
		return fmt.Sprintf("created %s..%s", formatBound(d.From), formatBound(d.To))
	default:
		return string(m.Kind())
	}
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ColumnDraft is the outcome of the guided column picker.
type ColumnDraft struct {
	TitleChoice TitleChoice
	CustomTitle string
	Icon        string
}

// Title resolves the column title the draft asks for.
func (d ColumnDraft) Title() (string, error) {
	if d.TitleChoice == TitleCustom {
		title := strings.TrimSpace(d.CustomTitle)
		if title == "" {
			return "", Invalid("custom title", "is required when the custom title option is chosen")
		}
		return title, nil
	}
	if !d.TitleChoice.Known() {
		return "", Invalid("title choice", fmt.Sprintf("%q is not offered by the picker", d.TitleChoice))
	}
	return d.TitleChoice.Label(), nil
}

// ColumnDeletion reports what deleting a column did to its cards.
type ColumnDeletion struct {
	ColumnID   string
	Policy     DeletePolicy
	FallbackID string
	Reassigned int
}
