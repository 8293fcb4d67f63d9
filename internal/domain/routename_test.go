package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapParseRoundTrip(t *testing.T) {
	names := []string{"notes", "my_net_worth", "pdf_merge_split", "a", "deutsch_vocab2"}

	for _, name := range names {
		title, err := WrapTitle(name)
		require.NoError(t, err)

		got, err := ParseTitle(title)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestParseTitle(t *testing.T) {
	got, err := ParseTitle("/notes_html")
	require.NoError(t, err)
	assert.Equal(t, "notes", got)
}

func TestParseTitleMalformed(t *testing.T) {
	bad := []string{"", "/", "notes_html", "/notes", "/_html", "/no tes_html", "/notes_html_html_html"}

	for _, title := range bad {
		_, err := ParseTitle(title)
		assert.Error(t, err, "title %q", title)
	}
}

func TestParseTitleDoubleWrapped(t *testing.T) {
	// "_html" inside the name would round-trip ambiguously, so wrapping
	// rejects it up front.
	_, err := WrapTitle("notes_html")
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Notes":        "notes",
		"My Net Worth": "my_net_worth",
		" Pdf  Merge ": "pdf_merge",
		"Deutsch-Vocab": "deutschvocab",
	}

	for in, want := range cases {
		got, err := Slug(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Slug("   ")
	assert.Error(t, err)

	_, err = Slug("123")
	assert.Error(t, err)
}
