package crawler

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Partition is one calendar month of the archive.
type Partition struct {
	Year  int
	Month int
}

func (p Partition) String() string { return fmt.Sprintf("%d-%02d", p.Year, p.Month) }

// IndexURL builds <origin>/<year>/<month-2digit>/.
func IndexURL(origin string, p Partition) string {
	return fmt.Sprintf("%s/%d/%02d/", strings.TrimRight(origin, "/"), p.Year, p.Month)
}

// Partitions enumerates every month of the inclusive year range in order.
func Partitions(startYear, endYear int) []Partition {
	var out []Partition
	for y := startYear; y <= endYear; y++ {
		for m := 1; m <= 12; m++ {
			out = append(out, Partition{Year: y, Month: m})
		}
	}
	return out
}

// EntryID parses the numeric id out of an <origin>/<digits>.html URL.
func EntryID(u string) (int64, bool) {
	base := path.Base(u)
	if !strings.HasSuffix(base, ".html") {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(base, ".html"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SortEntryURLs deduplicates urls and orders them by numeric entry id, which
// tracks publication order. URLs without a parsable id sort last, and ties
// fall back to lexicographic order.
func SortEntryURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := EntryID(out[i])
		b, bok := EntryID(out[j])
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
