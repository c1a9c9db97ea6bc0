package domain

import (
	"slices"
	"strings"
	"time"
)

type Message struct {
	ID      string
	Sender  string
	Content string
	Type    MessageType
	SentAt  time.Time
}

// Card is a support contact tracked on the board. Status holds the id of
// the column the card currently sits in.
type Card struct {
	ID            string
	Title         string
	Description   *string
	Status        string
	Department    string
	Phone         *string
	Favorite      bool
	AssignedTo    *string
	Collaborators []string
	Labels        []string
	Observations  *string
	Messages      []Message
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the fields every stored card must carry.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return Invalid("title", "is required")
	}
	if c.Status == "" {
		return Invalid("status", "is required")
	}
	return nil
}

// HasLabel reports whether the card carries label.
func (c *Card) HasLabel(label string) bool {
	return slices.Contains(c.Labels, label)
}

// PhoneOrEmpty returns the phone number or "" when unset.
func (c *Card) PhoneOrEmpty() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// Clone returns a deep copy so working copies never alias store state.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	out.Description = clonePtr(c.Description)
	out.Phone = clonePtr(c.Phone)
	out.AssignedTo = clonePtr(c.AssignedTo)
	out.Observations = clonePtr(c.Observations)
	out.Collaborators = slices.Clone(c.Collaborators)
	out.Labels = slices.Clone(c.Labels)
	out.Messages = slices.Clone(c.Messages)
	return &out
}

// CardDraft carries the caller-supplied fields of a new card.
type CardDraft struct {
	Title         string
	Description   *string
	Status        string
	Department    string
	Phone         *string
	Favorite      bool
	AssignedTo    *string
	Collaborators []string
	Labels        []string
	Observations  *string
}

// CardPatch is a partial update. Nil fields are left untouched.
type CardPatch struct {
	Title         *string
	Description   *string
	Status        *string
	Department    *string
	Phone         *string
	Favorite      *bool
	AssignedTo    *string
	Collaborators *[]string
	Labels        *[]string
	Observations  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p == CardPatch{}
}

// Apply writes the set fields of p onto c. An empty string clears the
// optional text fields.
func (p CardPatch) Apply(c *Card) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = emptyToNil(*p.Description)
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Department != nil {
		c.Department = *p.Department
	}
	if p.Phone != nil {
		c.Phone = emptyToNil(*p.Phone)
	}
	if p.Favorite != nil {
		c.Favorite = *p.Favorite
	}
	if p.AssignedTo != nil {
		c.AssignedTo = emptyToNil(*p.AssignedTo)
	}
	if p.Collaborators != nil {
		c.Collaborators = NormalizeSet(*p.Collaborators)
	}
	if p.Labels != nil {
		c.Labels = NormalizeSet(*p.Labels)
	}
	if p.Observations != nil {
		c.Observations = emptyToNil(*p.Observations)
	}
}

// StatusPatch is the patch a card move sends to the store.
func StatusPatch(columnID string) CardPatch {
	return CardPatch{Status: &columnID}
}

// NormalizeSet trims, drops blanks, dedupes and sorts ids so that set
// fields compare and store deterministically. It never returns nil.
func NormalizeSet(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
