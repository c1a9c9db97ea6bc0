package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisplayMode_AllKinds(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		kind  DisplayKind
		label string
		want  DisplayMode
	}{
		{DisplayNatural, "", nil},
		{DisplayOldest, "", ShowOldest{}},
		{DisplayNewest, "", ShowNewest{}},
		{DisplayLabel, "vip", ByLabel{Label: "vip"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			got, err := NewDisplayMode(tc.kind, tc.label, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.kind, KindOf(got))
		})
	}

	got, err := NewDisplayMode(DisplayDateRange, "", &from, &to)
	require.NoError(t, err)
	assert.Equal(t, ByDateRange{From: &from, To: &to}, got)
}

func TestNewDisplayMode_Rejects(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewDisplayMode(DisplayLabel, "", nil, nil)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewDisplayMode(DisplayDateRange, "", &from, &to)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewDisplayMode("sideways", "", nil, nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestByDateRange_ContainsInclusive(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	r := ByDateRange{From: &from, To: &to}

	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.False(t, r.Contains(from.Add(-time.Second)))
	assert.False(t, r.Contains(to.Add(time.Second)))
	assert.True(t, ByDateRange{}.Contains(to.AddDate(10, 0, 0)))
}

func TestTitleChoice_Labels(t *testing.T) {
	for _, c := range TitleChoices {
		assert.True(t, c.Known())
		assert.NotEmpty(t, c.Label())
	}
	assert.False(t, TitleChoice("nope").Known())
}

func TestDefaultColumns_DenseOrder(t *testing.T) {
	cols := DefaultColumns()
	require.Len(t, cols, 5)
	for i, c := range cols {
		assert.Equal(t, i, c.Order)
		assert.NoError(t, c.Validate())
	}
}

func TestErrors_Matching(t *testing.T) {
	assert.True(t, errors.Is(CardNotFound("c1"), ErrNotFound))
	assert.True(t, errors.Is(ColumnNotFound("x"), ErrNotFound))
	assert.True(t, IsTransient(Unavailable("listing cards", errors.New("database is locked"))))
	assert.False(t, IsTransient(CardNotFound("c1")))

	var nf *NotFoundError
	require.True(t, errors.As(CardNotFound("c9"), &nf))
	assert.Equal(t, "c9", nf.ID)
}

func TestColumnDraftTitle(t *testing.T) {
	title, err := ColumnDraft{TitleChoice: TitleWaiting}.Title()
	require.NoError(t, err)
	assert.Equal(t, "Aguardando", title)

	title, err = ColumnDraft{TitleChoice: TitleCustom, CustomTitle: "  Retorno  "}.Title()
	require.NoError(t, err)
	assert.Equal(t, "Retorno", title)

	_, err = ColumnDraft{TitleChoice: TitleCustom, CustomTitle: "   "}.Title()
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ColumnDraft{TitleChoice: "unknown"}.Title()
	assert.True(t, errors.Is(err, ErrValidation))
}
