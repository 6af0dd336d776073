package parser

import (
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// separator is the entry delimiter of the compiled corpus; rendered content
// must never contain it as a bare line.
const separator = "---"

// Renderer turns an HTML fragment into markdown with inline links kept.
type Renderer struct {
	conv *md.Converter
}

func NewRenderer(origin string) *Renderer {
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" || base.Host == "" {
		base = nil
	}
	domain := ""
	if base != nil {
		domain = base.Host
	}
	conv := md.NewConverter(domain, true, &md.Options{
		HeadingStyle:   "atx",
		HorizontalRule: "* * *",
		LinkStyle:      "inlined",
		GetAbsoluteURL: func(_ *goquery.Selection, rawURL string, _ string) string {
			return resolveLink(base, rawURL)
		},
	})
	return &Renderer{conv: conv}
}

// resolveLink makes href absolute against the origin, keeping its scheme.
// Hrefs that do not parse, or a missing origin, leave href as written.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (r *Renderer) Render(s *goquery.Selection) string {
	out := strings.TrimSpace(r.conv.Convert(s))
	if out == "" {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == separator {
			lines[i] = "* * *"
		}
	}
	return strings.Join(lines, "\n")
}
