package crawler

import (
	"bytes"
	"context"
	"time"

	"journal-archive-crawler/internal/models"
	"journal-archive-crawler/internal/parser"
	"journal-archive-crawler/pkg/logger"
)

// Page kinds, used as metric labels.
const (
	PageIndex = "index"
	PageEntry = "entry"
)

// Config describes the archive to walk.
type Config struct {
	Origin    string
	StartYear int
	EndYear   int
	Delay     time.Duration
}

// Recorder receives crawl events. The monitoring package implements it.
type Recorder interface {
	ObserveFetch(page string, r models.FetchResult)
	ObserveEntry(e models.Entry)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, models.FetchResult) {}
func (nopRecorder) ObserveEntry(models.Entry)               {}

// Crawler walks the archive sequentially, one request at a time, pausing
// cfg.Delay after every request whatever its outcome.
type Crawler struct {
	cfg     Config
	fetcher Fetcher
	links   *parser.LinkExtractor
	parser  *parser.Parser
	log     *logger.Logger
	rec     Recorder
	sleep   func(ctx context.Context, d time.Duration)
}

type Option func(*Crawler)

func WithRecorder(r Recorder) Option { return func(c *Crawler) { c.rec = r } }

// WithSleep replaces the pacing wait, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(c *Crawler) { c.sleep = fn }
}

func New(cfg Config, f Fetcher, p *parser.Parser, l *logger.Logger, opts ...Option) *Crawler {
	c := &Crawler{
		cfg:     cfg,
		fetcher: f,
		links:   parser.NewLinkExtractor(cfg.Origin),
		parser:  p,
		log:     l,
		rec:     nopRecorder{},
		sleep:   sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Crawl discovers every entry URL in the configured year range and scrapes
// them in id order. Per-page failures are logged and skipped; the only error
// returned is ctx's, alongside the entries gathered before cancellation.
func (c *Crawler) Crawl(ctx context.Context) ([]models.Entry, error) {
	c.log.Infof("Collecting URLs...")
	urls, err := c.Discover(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Infof("Total entries found: %d", len(urls))
	return c.Scrape(ctx, urls)
}

// Discover fetches every monthly index page and returns the distinct entry
// URLs sorted by id.
func (c *Crawler) Discover(ctx context.Context) ([]string, error) {
	var all []string
	for _, p := range Partitions(c.cfg.StartYear, c.cfg.EndYear) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		links := c.indexLinks(ctx, p)
		if len(links) > 0 {
			c.log.Infof("Found %d entries in %s", len(links), p)
			all = append(all, links...)
		}
		c.sleep(ctx, c.cfg.Delay)
	}
	return SortEntryURLs(all), nil
}

func (c *Crawler) indexLinks(ctx context.Context, p Partition) []string {
	u := IndexURL(c.cfg.Origin, p)
	res := c.fetcher.Fetch(ctx, u)
	c.rec.ObserveFetch(PageIndex, res)
	if !res.OK() {
		c.log.Warnf("Skipping %s: %v", u, FetchError(res))
		return nil
	}
	c.warnTruncated(res)
	return c.links.Extract(bytes.NewReader(res.Body), res.ContentType)
}

// Scrape fetches each URL in the given order and extracts its entry. Failed
// fetches are dropped.
func (c *Crawler) Scrape(ctx context.Context, urls []string) ([]models.Entry, error) {
	c.log.Infof("Scraping content...")
	entries := make([]models.Entry, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		c.log.Infof("Scraping (%d/%d): %s", i+1, len(urls), u)
		if e, ok := c.Entry(ctx, u); ok {
			entries = append(entries, e)
		}
		c.sleep(ctx, c.cfg.Delay)
	}
	return entries, nil
}

// Entry fetches and extracts a single entry page without pacing.
func (c *Crawler) Entry(ctx context.Context, u string) (models.Entry, bool) {
	res := c.fetcher.Fetch(ctx, u)
	c.rec.ObserveFetch(PageEntry, res)
	if !res.OK() {
		c.log.Warnf("Failed to fetch %s: %v", u, FetchError(res))
		return models.Entry{}, false
	}
	c.warnTruncated(res)
	e := c.parser.ExtractEntry(u, bytes.NewReader(res.Body), res.ContentType)
	c.rec.ObserveEntry(e)
	return e, true
}

func (c *Crawler) warnTruncated(res models.FetchResult) {
	if res.Truncated {
		c.log.Warnf("Body of %s exceeded the size cap and was cut at %d bytes", res.URL, len(res.Body))
	}
}
