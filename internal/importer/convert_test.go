package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_ColumnsKeepTheirIDs(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schema := &BoardImport{
		Columns: []ColumnImport{
			{ID: "retorno", Title: " Retorno ", Icon: "📞"},
			{ID: "arquivo", Title: "Arquivo"},
		},
	}

	out := Convert(schema, now)
	require.Len(t, out.Columns, 2)
	assert.Equal(t, "retorno", out.Columns[0].ID)
	assert.Equal(t, "Retorno", out.Columns[0].Title)
	assert.Equal(t, "📞", out.Columns[0].Icon)
	assert.Equal(t, domain.DefaultIcon, out.Columns[1].Icon)
}

func TestConvert_CardDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schema := &BoardImport{
		Cards: []CardImport{
			{
				Title:         " João Silva ",
				Column:        "nao_lidas",
				Labels:        []string{"vip", " vip", "retorno"},
				Collaborators: []string{"ana"},
				Messages:      []MessageImport{{Content: "oi"}},
			},
		},
	}

	out := Convert(schema, now)
	require.Len(t, out.Cards, 1)
	c := out.Cards[0]
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "João Silva", c.Title)
	assert.Equal(t, "nao_lidas", c.Status)
	assert.Equal(t, []string{"retorno", "vip"}, c.Labels)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	require.Len(t, c.Messages, 1)
	assert.Equal(t, domain.MessageText, c.Messages[0].Type)
	assert.Equal(t, now, c.Messages[0].SentAt)
	assert.NoError(t, c.Validate())
}

func TestConvert_Timestamps(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schema := &BoardImport{
		Cards: []CardImport{
			{
				Title:     "Maria Souza",
				Column:    "finalizado",
				CreatedAt: "2025-02-01",
				Messages: []MessageImport{
					{Content: "a"},
					{Content: "b", Type: "image", SentAt: "2025-02-02T10:00:00-03:00"},
				},
			},
			{Title: "Futuro", Column: "finalizado", CreatedAt: "2025-04-01"},
		},
	}

	out := Convert(schema, now)
	require.Len(t, out.Cards, 2)

	past := out.Cards[0]
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), past.CreatedAt)
	assert.Equal(t, now, past.UpdatedAt)
	assert.Equal(t, past.CreatedAt, past.Messages[0].SentAt)
	assert.Equal(t, time.Date(2025, 2, 2, 13, 0, 0, 0, time.UTC), past.Messages[1].SentAt)
	assert.Equal(t, domain.MessageImage, past.Messages[1].Type)

	future := out.Cards[1]
	assert.Equal(t, future.CreatedAt, future.UpdatedAt)
}
