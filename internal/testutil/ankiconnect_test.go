package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/wortschatz/internal/anki"
)

func TestParseQuery(t *testing.T) {
	q := anki.DeckQuery("Deutsche Lernen::Wortschatz").
		Model("Basic (and reversed card)_main").
		Field("base_de", `Haus "groß": 1*`)

	terms := parseQuery(q.String())
	require.Len(t, terms, 3)
	assert.Equal(t, queryTerm{key: "deck", value: "Deutsche Lernen::Wortschatz"}, terms[0])
	assert.Equal(t, queryTerm{key: "note", value: "Basic (and reversed card)_main"}, terms[1])
	assert.Equal(t, queryTerm{key: "base_de", value: `Haus "groß": 1*`}, terms[2])
}

func TestFakeAnki_RoundTrip(t *testing.T) {
	fake := NewFakeAnki(t)
	fake.AddModel("Vokabel", "base_de", "base_ru")
	fake.AddNote("Deutsch", "Vokabel", map[string]string{"base_de": "Haus"})
	fake.AddNote("Englisch", "Vokabel", map[string]string{"base_de": "Haus"})

	ctx := context.Background()
	c := anki.NewClient(fake.URL(), anki.WithLogger(log.New(io.Discard)))

	ids, err := c.FindNotes(ctx, anki.DeckQuery("Deutsch").Field("base_de", "haus").String())
	require.NoError(t, err)
	require.Len(t, ids, 1)

	notes, err := c.NotesInfo(ctx, ids)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"base_de", "base_ru"}, notes[0].FieldNames())

	_, err = c.AddNote(ctx, anki.NewDeckNote("Deutsch", "Vokabel", map[string]string{"base_de": "Haus"}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	fake.Fail("version", "boom")
	_, err = c.Version(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, fake.CallCount("version"))
}
