package classifier

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"journal-archive-crawler/internal/models"
)

// Line-shape thresholds of the heuristic stage.
const (
	MaxAvgLineLength = 60
	ShortLineLength  = 50
	MinShortRatio    = 0.6
)

var (
	ErrEmptyBlock     = errors.New("empty entry block")
	ErrMalformedBlock = errors.New("entry block has fewer than 3 lines")
)

type Field int

const (
	FieldTitle Field = iota
	FieldBody
)

func (f Field) String() string {
	if f == FieldBody {
		return "body"
	}
	return "title"
}

// Override forces Decision when Field contains any of Substrings
// (case-insensitive).
type Override struct {
	Name       string
	Field      Field
	Substrings []string
	Decision   bool
}

func (o Override) match(title, body string) (string, bool) {
	hay := title
	if o.Field == FieldBody {
		hay = body
	}
	hay = strings.ToLower(hay)
	for _, s := range o.Substrings {
		if s != "" && strings.Contains(hay, strings.ToLower(s)) {
			return s, true
		}
	}
	return "", false
}

// Rules builds the override sequence in evaluation order: body vetoes, title
// vetoes, known poem titles, known prose titles. Later rules win.
func Rules(bodyVetoes, titleVetoes, poemTitles, proseTitles []string) []Override {
	return []Override{
		{Name: "body-veto", Field: FieldBody, Substrings: bodyVetoes, Decision: false},
		{Name: "title-veto", Field: FieldTitle, Substrings: titleVetoes, Decision: false},
		{Name: "poem-title", Field: FieldTitle, Substrings: poemTitles, Decision: true},
		{Name: "prose-title", Field: FieldTitle, Substrings: proseTitles, Decision: false},
	}
}

type Classifier struct {
	overrides []Override
}

func New(overrides []Override) *Classifier { return &Classifier{overrides: overrides} }

// Stats are the line-shape measurements behind Score.
type Stats struct {
	Lines      int
	AvgLineLen float64
	ShortRatio float64
}

// Measure counts non-blank lines after trimming, in characters.
func Measure(body string) Stats {
	var st Stats
	var total, short int
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := utf8.RuneCountInString(line)
		st.Lines++
		total += n
		if n < ShortLineLength {
			short++
		}
	}
	if st.Lines == 0 {
		return st
	}
	st.AvgLineLen = float64(total) / float64(st.Lines)
	st.ShortRatio = float64(short) / float64(st.Lines)
	return st
}

// Score is the heuristic stage: poems here favour short, broken lines.
func Score(body string) bool {
	return scoreStats(Measure(body))
}

func scoreStats(st Stats) bool {
	if st.Lines == 0 {
		return false
	}
	if st.AvgLineLen > MaxAvgLineLength {
		return false
	}
	return st.ShortRatio >= MinShortRatio
}

// SplitBlock returns the title line and body of a raw corpus block. The body
// is whatever follows the first three lines (title, date, blank).
func SplitBlock(block string) (title, body string, err error) {
	stripped := strings.TrimSpace(block)
	if stripped == "" {
		return "", "", ErrEmptyBlock
	}
	parts := strings.SplitN(stripped, "\n", 4)
	if len(parts) < 3 {
		return "", "", ErrMalformedBlock
	}
	return parts[0], parts[len(parts)-1], nil
}

func (c *Classifier) Classify(block string) (models.Classification, error) {
	titleLine, body, err := SplitBlock(block)
	if err != nil {
		return models.Classification{}, err
	}

	st := Measure(body)
	out := models.Classification{
		Title:      strings.TrimSpace(strings.TrimPrefix(titleLine, "##")),
		Heuristic:  scoreStats(st),
		AvgLineLen: st.AvgLineLen,
		ShortRatio: st.ShortRatio,
		Lines:      st.Lines,
		Reason:     map[string]string{},
	}
	out.IsPoem = out.Heuristic

	for _, o := range c.overrides {
		if hit, ok := o.match(titleLine, body); ok {
			out.IsPoem = o.Decision
			out.Rule = o.Name
			out.Reason[o.Name] = fmt.Sprintf("%s contains %q", o.Field, hit)
		}
	}
	return out, nil
}

// IsPoem reports the final decision; blocks that cannot be parsed are never
// poems.
func (c *Classifier) IsPoem(block string) bool {
	out, err := c.Classify(block)
	return err == nil && out.IsPoem
}

// Result of filtering a whole corpus.
type Result struct {
	Poems     []string
	Decisions []models.Classification
	Skipped   int
}

// Filter classifies every block and keeps the poems, raw and in order.
func (c *Classifier) Filter(blocks []string) Result {
	var r Result
	for i, b := range blocks {
		out, err := c.Classify(b)
		if err != nil {
			r.Skipped++
			continue
		}
		out.Index = i
		r.Decisions = append(r.Decisions, out)
		if out.IsPoem {
			r.Poems = append(r.Poems, b)
		}
	}
	return r
}

// Conflicts lists substrings of a positive title rule that overlap a
// substring of a later negative title rule. Overlap is containment either
// way: when the negative substring is inside the positive one every title
// the positive rule matches ends up negative, and when the positive one is
// inside the negative one only the longer titles do. Both are reported.
func (c *Classifier) Conflicts() []string {
	var out []string
	seen := map[string]struct{}{}
	for i, pos := range c.overrides {
		if pos.Field != FieldTitle || !pos.Decision {
			continue
		}
		for _, neg := range c.overrides[i+1:] {
			if neg.Field != FieldTitle || neg.Decision {
				continue
			}
			for _, s := range pos.Substrings {
				ls := strings.ToLower(s)
				if _, dup := seen[ls]; dup || ls == "" {
					continue
				}
				for _, n := range neg.Substrings {
					ln := strings.ToLower(n)
					if ln != "" && (strings.Contains(ls, ln) || strings.Contains(ln, ls)) {
						seen[ls] = struct{}{}
						out = append(out, s)
						break
					}
				}
			}
		}
	}
	return out
}
