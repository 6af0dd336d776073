package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/nao1215/markdown"

	"journal-archive-crawler/internal/classifier"
	"journal-archive-crawler/internal/models"
)

// Summary is everything the classification report shows.
type Summary struct {
	Blocks    []string
	Result    classifier.Result
	Conflicts []string
}

// Write renders a markdown report of a classification run: totals, a
// warning for curated titles that can never classify as poems, and one row
// per classified entry.
func Write(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Poem Classification Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Blocks", strconv.Itoa(len(s.Blocks))},
			{"Classified", strconv.Itoa(len(s.Result.Decisions))},
			{"Poems", strconv.Itoa(len(s.Result.Poems))},
			{"Prose", strconv.Itoa(len(s.Result.Decisions) - len(s.Result.Poems))},
			{"Skipped", strconv.Itoa(s.Result.Skipped)},
		},
	})
	md.PlainText("")

	if len(s.Conflicts) > 0 {
		md.Warningf("%d curated title(s) appear in both the poem and prose lists and always classify as prose: %s",
			len(s.Conflicts), strings.Join(s.Conflicts, ", "))
		md.PlainText("")
	}

	md.H2("Entries")
	md.PlainText("")
	if len(s.Result.Decisions) == 0 {
		md.PlainText("No entries classified.")
		return md.Build()
	}

	rows := make([][]string, 0, len(s.Result.Decisions))
	for _, d := range s.Result.Decisions {
		rows = append(rows, []string{
			strconv.Itoa(d.Index + 1),
			escapeCell(d.Title),
			label(d.Heuristic),
			ruleText(d),
			label(d.IsPoem),
			fmt.Sprintf("%.1f", d.AvgLineLen),
			fmt.Sprintf("%.2f", d.ShortRatio),
			language(s.Blocks, d),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "Heuristic", "Override", "Decision", "Avg line", "Short ratio", "Lang"},
		Rows:   rows,
	})
	return md.Build()
}

func label(poem bool) string {
	if poem {
		return "poem"
	}
	return "prose"
}

func ruleText(d models.Classification) string {
	if d.Rule == "" {
		return "-"
	}
	return escapeCell(d.Rule + ": " + d.Reason[d.Rule])
}

// language guesses the body language; "-" when unreliable.
func language(blocks []string, d models.Classification) string {
	if d.Index < 0 || d.Index >= len(blocks) {
		return "-"
	}
	_, body, err := classifier.SplitBlock(blocks[d.Index])
	if err != nil || strings.TrimSpace(body) == "" {
		return "-"
	}
	info := whatlanggo.Detect(body)
	if !info.IsReliable() {
		return "-"
	}
	return info.Lang.Iso6393()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
