package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-archive-crawler/internal/models"
)

var sampleEntries = []models.Entry{
	{URL: "u1", Title: "Kuch log kabhi kuch", Date: "March 3rd, 2005", Content: "line one\nline two\n\nline three"},
	{URL: "u2", Title: "Nothing New", Date: "Unknown Date", Content: "A long paragraph about nothing in particular."},
	{URL: "u3", Title: "No Title", Date: "2007", Content: "see [link](https://example.com/x)"},
}

func TestWriteCorpusFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCorpus(&buf, sampleEntries[:1]))

	want := "# Compiled Journal Entries\n\nTotal Entries: 1\n\n" +
		"## Kuch log kabhi kuch\n**Date:** March 3rd, 2005\n\nline one\nline two\n\nline three\n\n---\n\n"
	assert.Equal(t, want, buf.String())
}

func TestCorpusRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCorpus(&buf, sampleEntries))
	text := buf.String()

	c := SplitCorpus(text)
	assert.Equal(t, "# Compiled Journal Entries\n\nTotal Entries: 3\n\n", c.Header)
	require.Len(t, c.Blocks, len(sampleEntries))
	assert.Equal(t, "---\n\n", c.Trailer)

	section := strings.TrimPrefix(text, c.Header)
	assert.Equal(t, section, strings.Join(c.Blocks, Separator)+c.Trailer)
	assert.Equal(t, text, JoinCorpus(c))

	for i, b := range c.Blocks {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(b), "## "+sampleEntries[i].Title), "block %d: %q", i, b)
	}
}

func TestSplitCorpusEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		blocks int
	}{
		{"empty", "", 0},
		{"header only", "# Compiled Journal Entries\n\nTotal Entries: 0\n\n", 0},
		{"no trailing separator", "# H\n\n## a\nb\n\nc\n---\n## d\ne\n\nf\n", 2},
		{"stray separator before entries", "# H\n---\n\n## a\nb\n\nc\n\n---\n\n", 1},
		{"separator only", "# H\n---\n", 0},
		{"inline dashes are not separators", "# H\n\n## a\nb\n\nc --- d\n----\n\n---\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SplitCorpus(tt.text)
			assert.Len(t, c.Blocks, tt.blocks)
			assert.Equal(t, tt.text, JoinCorpus(c))
		})
	}
}

func TestCorpusFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.md")
	require.NoError(t, WriteCorpusFile(path, sampleEntries))

	c, err := ReadCorpusFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Blocks, 3)

	_, err = ReadCorpusFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestWritePoems(t *testing.T) {
	var buf bytes.Buffer
	blocks := []string{"## a\n**Date:** d\n\nx\n\n", "\n\n## b\n**Date:** e\n\ny\n\n"}
	require.NoError(t, WritePoems(&buf, blocks))
	assert.Equal(t,
		"# Collected Poems\n\nDerived from Journal Entries\n\n"+
			"## a\n**Date:** d\n\nx\n\n---\n\n\n## b\n**Date:** e\n\ny\n\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WritePoems(&buf, nil))
	assert.Equal(t, PoemsPreamble, buf.String())
}

func TestReadURLs(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	urls, err := ReadURLs(write("in.csv", "id,url\n1,https://o/1.html\n2, https://o/2.html \n3,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://o/1.html", "https://o/2.html"}, urls)

	urls, err = ReadURLs(write("in.ndjson", "{\"url\":\"https://o/3.html\"}\n\"https://o/4.html\"\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://o/3.html", "https://o/4.html"}, urls)

	urls, err = ReadURLs(write("in.txt", "# picked by hand\nhttps://o/5.html\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://o/5.html"}, urls)

	urls, err = ReadURLs(write("dup.csv", "# exported\nurl\nhttps://o/9.html\n\"https://o/7.html\"\nhttps://o/9.html\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://o/9.html", "https://o/7.html"}, urls)

	urls, err = ReadURLs(write("dup.txt", "https://o/5.html\n{\"url\":\"https://o/5.html\"}\n{\"url\":\"\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://o/5.html"}, urls)

	_, err = ReadURLs(write("bad.csv", "id,link\n1,x\n"))
	assert.ErrorIs(t, err, ErrNoURLColumn)
	_, err = ReadURLs(write("header-only.csv", "url\n"))
	assert.ErrorIs(t, err, ErrNoURLs)
	_, err = ReadURLs(write("empty.txt", "\n# nothing\n"))
	assert.ErrorIs(t, err, ErrNoURLs)
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, []models.Classification{{Title: "a", IsPoem: true}, {Title: "b"}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"isPoem":true`)
	assert.Contains(t, lines[1], `"title":"b"`)
}
