package ioformats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"journal-archive-crawler/internal/models"
)

// Separator delimits entries in both the compiled corpus and the poems file.
const Separator = "---"

const (
	corpusTitle   = "# Compiled Journal Entries"
	PoemsPreamble = "# Collected Poems\n\nDerived from Journal Entries\n\n"
)

var (
	separatorLineRe = regexp.MustCompile(`(?m)^` + Separator + `$`)
	entryHeadingRe  = regexp.MustCompile(`(?m)^## `)
)

// WriteCorpus emits the header followed by one block per entry, each block
// terminated by a separator line.
func WriteCorpus(w io.Writer, entries []models.Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\nTotal Entries: %d\n\n", corpusTitle, len(entries))
	for _, e := range entries {
		fmt.Fprintf(bw, "## %s\n", e.Title)
		fmt.Fprintf(bw, "**Date:** %s\n\n", e.Date)
		fmt.Fprintf(bw, "%s\n", e.Content)
		fmt.Fprintf(bw, "\n%s\n\n", Separator)
	}
	return bw.Flush()
}

func WriteCorpusFile(path string, entries []models.Entry) error {
	return writeFile(path, func(w io.Writer) error { return WriteCorpus(w, entries) })
}

// SplitCorpus cuts a compiled document at separator lines. The header is the
// text before the first "## " heading; a whitespace-only tail after the last
// separator is kept in Trailer (together with that separator) rather than
// reported as a block, so that
//
//	Header + strings.Join(Blocks, Separator) + Trailer
//
// reproduces text exactly.
func SplitCorpus(text string) models.Corpus {
	segments := separatorLineRe.Split(text, -1)

	var c models.Corpus
	headerOwnsSeparator := false
	if loc := entryHeadingRe.FindStringIndex(segments[0]); loc != nil {
		c.Header = segments[0][:loc[0]]
		segments[0] = segments[0][loc[0]:]
	} else if len(segments) > 1 {
		// no entry before the first separator: it all belongs to the header
		c.Header = segments[0] + Separator
		segments = segments[1:]
		headerOwnsSeparator = true
	} else {
		c.Header = segments[0]
		segments = nil
	}

	if n := len(segments); n > 0 && strings.TrimSpace(segments[n-1]) == "" {
		switch {
		case n > 1:
			c.Trailer = Separator + segments[n-1]
			segments = segments[:n-1]
		case headerOwnsSeparator:
			c.Trailer = segments[0]
			segments = nil
		}
	}
	c.Blocks = segments
	return c
}

// JoinCorpus is the inverse of SplitCorpus.
func JoinCorpus(c models.Corpus) string {
	return c.Header + strings.Join(c.Blocks, Separator) + c.Trailer
}

func ReadCorpusFile(path string) (models.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Corpus{}, err
	}
	return SplitCorpus(string(data)), nil
}

// WritePoems emits the poems preamble and the blocks, unchanged, joined by a
// separator line.
func WritePoems(w io.Writer, blocks []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(PoemsPreamble)
	bw.WriteString(strings.Join(blocks, Separator+"\n"))
	return bw.Flush()
}

func WritePoemsFile(path string, blocks []string) error {
	return writeFile(path, func(w io.Writer) error { return WritePoems(w, blocks) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
