package parser

import (
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkExtractor keeps anchors whose href is exactly <origin>/<digits>.html.
type LinkExtractor struct {
	entryRe *regexp.Regexp
}

func NewLinkExtractor(origin string) *LinkExtractor {
	origin = strings.TrimRight(origin, "/")
	return &LinkExtractor{
		entryRe: regexp.MustCompile(`^` + regexp.QuoteMeta(origin) + `/\d+\.html$`),
	}
}

func (l *LinkExtractor) Matches(href string) bool { return l.entryRe.MatchString(href) }

// Extract returns the distinct entry links of an index page in sorted order.
// A page that cannot be parsed or has no matches yields an empty slice.
func (l *LinkExtractor) Extract(r io.Reader, contentType string) []string {
	doc, err := Document(r, contentType)
	if err != nil {
		return []string{}
	}
	set := map[string]struct{}{}
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if l.Matches(href) {
			set[href] = struct{}{}
		}
	})
	links := make([]string, 0, len(set))
	for u := range set {
		links = append(links, u)
	}
	sort.Strings(links)
	return links
}
