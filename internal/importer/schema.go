package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// BoardImport is the top-level JSON structure for a board import.
type BoardImport struct {
	Columns []ColumnImport `json:"columns,omitempty"`
	Cards   []CardImport   `json:"cards"`
}

// ColumnImport defines a column appended to the right of the board. Its ID
// is kept as given so cards in the same file can refer to it.
type ColumnImport struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// CardImport defines a card. Column is the ID of an existing or imported
// column.
type CardImport struct {
	Title         string          `json:"title"`
	Column        string          `json:"column"`
	Department    string          `json:"department,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Favorite      bool            `json:"favorite,omitempty"`
	AssignedTo    *string         `json:"assigned_to,omitempty"`
	Collaborators []string        `json:"collaborators,omitempty"`
	Labels        []string        `json:"labels,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Observations  *string         `json:"observations,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	Messages      []MessageImport `json:"messages,omitempty"`
}

// MessageImport defines one entry of a card's message history.
type MessageImport struct {
	Sender  string `json:"sender,omitempty"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
	SentAt  string `json:"sent_at,omitempty"`
}

// LoadBoardImport reads and parses a board import JSON file.
func LoadBoardImport(path string) (*BoardImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema BoardImport
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
