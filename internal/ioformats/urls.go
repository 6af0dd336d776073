package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadURLs reads entry URLs from a CSV file (header row with a "url" column),
// an NDJSON file (raw strings or {"url": ...} objects), or a plain list with
// one URL per line and '#' comments. URLs come back in first-seen order with
// duplicates dropped.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var set urlSet
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = set.readCSV(f)
	} else {
		err = set.readLines(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(set.urls) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoURLs)
	}
	return set.urls, nil
}

var (
	ErrNoURLs      = errors.New("no urls found")
	ErrNoURLColumn = errors.New("csv header has no 'url' column")
)

type urlSet struct {
	urls []string
	seen map[string]struct{}
}

func (s *urlSet) add(raw string) {
	u := strings.Trim(strings.TrimSpace(raw), `"`)
	if u == "" {
		return
	}
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[u]; ok {
		return
	}
	s.seen[u] = struct{}{}
	s.urls = append(s.urls, u)
}

// readCSV streams records, taking the url column named by the header row.
func (s *urlSet) readCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	col := -1
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if col == -1 {
			for i, h := range rec {
				if strings.EqualFold(strings.TrimSpace(h), "url") {
					col = i
				}
			}
			if col == -1 {
				return fmt.Errorf("line %d: %w", line, ErrNoURLColumn)
			}
			continue
		}
		if col < len(rec) {
			s.add(rec[col])
		}
	}
	return nil
}

func (s *urlSet) readLines(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				s.add(obj.URL)
				continue
			}
		}
		s.add(line)
	}
	return sc.Err()
}

// WriteNDJSON writes one JSON document per item.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

func WriteNDJSONFile[T any](path string, items []T) error {
	return writeFile(path, func(w io.Writer) error { return WriteNDJSON(w, items) })
}
