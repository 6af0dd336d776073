package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"journal-archive-crawler/internal/models"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Strategy locates one field in a document and returns nil on a miss.
type Strategy func(doc *goquery.Document) *goquery.Selection

// Select is the CSS selector strategy.
func Select(css string) Strategy {
	return func(doc *goquery.Document) *goquery.Selection {
		s := doc.Find(css).First()
		if s.Length() == 0 {
			return nil
		}
		return s
	}
}

// Chain builds an ordered fallback list from CSS selectors.
func Chain(selectors ...string) []Strategy {
	out := make([]Strategy, len(selectors))
	for i, css := range selectors {
		out[i] = Select(css)
	}
	return out
}

// Selector chains for the site's known templates, newest first.
var (
	TitleChain   = Chain("h1.aentry-post__title", ".entry-title", ".asset-name", "h3.entry-title")
	DateChain    = Chain(".aentry-post__time", ".aentry-post__time-link", ".entry-date", ".asset-meta time", "span.entry-date", "time")
	ContentChain = Chain(".aentry-post__text", ".aentry-post__content", ".article", ".entry-content", ".asset-body", ".entry-body")
)

func first(doc *goquery.Document, chain []Strategy) *goquery.Selection {
	for _, try := range chain {
		if s := try(doc); s != nil {
			return s
		}
	}
	return nil
}

type Parser struct {
	title    []Strategy
	date     []Strategy
	content  []Strategy
	renderer *Renderer
}

type Option func(*Parser)

func WithTitleChain(c []Strategy) Option   { return func(p *Parser) { p.title = c } }
func WithDateChain(c []Strategy) Option    { return func(p *Parser) { p.date = c } }
func WithContentChain(c []Strategy) Option { return func(p *Parser) { p.content = c } }

// New returns a parser using the default selector chains. origin is used to
// absolutize relative links in rendered content.
func New(origin string, opts ...Option) *Parser {
	p := &Parser{
		title:    TitleChain,
		date:     DateChain,
		content:  ContentChain,
		renderer: NewRenderer(origin),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ExtractEntry never fails: a field whose whole chain misses gets its
// sentinel, and an unparsable document yields an all-sentinel entry.
func (p *Parser) ExtractEntry(url string, r io.Reader, contentType string) models.Entry {
	entry := models.Entry{
		URL:     url,
		Title:   models.NoTitle,
		Date:    models.UnknownDate,
		Content: models.ContentNotFound,
	}

	doc, err := Document(r, contentType)
	if err != nil {
		return entry
	}
	doc.Find("script,noscript,style").Remove()

	if s := first(doc, p.title); s != nil {
		entry.Title = cleanText(s)
	}
	if s := first(doc, p.date); s != nil {
		entry.Date = cleanText(s)
	}
	if s := first(doc, p.content); s != nil {
		entry.Content = p.renderer.Render(s)
	}
	return entry
}

// Document decodes r to UTF-8 using the content type and any in-document
// charset hints, then parses it.
func Document(r io.Reader, contentType string) (*goquery.Document, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
}

func cleanText(s *goquery.Selection) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s.Text(), " "))
}
