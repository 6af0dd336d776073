package crawler

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"journal-archive-crawler/internal/models"
	"journal-archive-crawler/internal/parser"
	"journal-archive-crawler/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const testUA = "test-agent/1.0"

func TestFetchOK(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 1024, testUA)
	res := client.Fetch(context.Background(), ts.URL)
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, testUA, gotUA)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "text/html", res.ContentType)
	assert.Equal(t, "<html><title>x</title></html>", string(res.Body))
	assert.False(t, res.Truncated)
	assert.NoError(t, FetchError(res))
}

func TestFetchGzipAndSizeCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(strings.Repeat("a", 100)))
		_ = gz.Close()
	}))
	defer ts.Close()

	res := NewHTTPClient(5*time.Second, 10, testUA).Fetch(context.Background(), ts.URL)
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, "aaaaaaaaaa", string(res.Body))
	assert.True(t, res.Truncated)

	// a body of exactly the cap is whole
	res = NewHTTPClient(5*time.Second, 100, testUA).Fetch(context.Background(), ts.URL)
	require.True(t, res.OK(), res.Message)
	assert.Len(t, res.Body, 100)
	assert.False(t, res.Truncated)
}

func TestFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	res := NewHTTPClient(5*time.Second, 1024, testUA).Fetch(context.Background(), ts.URL)
	assert.Equal(t, models.FetchHTTPError, res.Kind)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Nil(t, res.Body)
	assert.ErrorIs(t, FetchError(res), ErrHTTPStatus)
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close()

	res := NewHTTPClient(time.Second, 1024, testUA).Fetch(context.Background(), addr)
	assert.Equal(t, models.FetchTransportError, res.Kind)
	assert.NotEmpty(t, res.Message)
	assert.Error(t, FetchError(res))

	res = NewHTTPClient(time.Second, 1024, testUA).Fetch(context.Background(), "not a url")
	assert.Equal(t, models.FetchTransportError, res.Kind)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	res := NewHTTPClient(50*time.Millisecond, 1024, testUA).Fetch(context.Background(), ts.URL)
	assert.Equal(t, models.FetchTransportError, res.Kind)
}

func TestPartitionsAndIndexURL(t *testing.T) {
	ps := Partitions(2004, 2005)
	require.Len(t, ps, 24)
	assert.Equal(t, Partition{2004, 1}, ps[0])
	assert.Equal(t, Partition{2005, 12}, ps[23])
	assert.Equal(t, "https://o/2004/03/", IndexURL("https://o/", Partition{2004, 3}))
	assert.Empty(t, Partitions(2006, 2005))
}

func TestSortEntryURLsNumeric(t *testing.T) {
	in := []string{
		"https://o/10114.html",
		"https://o/999.html",
		"https://o/abc.html",
		"https://o/999.html",
		"https://o/1200.html",
	}
	assert.Equal(t, []string{
		"https://o/999.html",
		"https://o/1200.html",
		"https://o/10114.html",
		"https://o/abc.html",
	}, SortEntryURLs(in))

	id, ok := EntryID("https://o/10114.html")
	assert.True(t, ok)
	assert.Equal(t, int64(10114), id)
}

// fakeSite serves a tiny archive: two entries in 2006-01, one broken entry
// in 2006-02 and 500s for every other month.
type fakeSite struct{}

func (fakeSite) handler(origin *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2006/01/":
			fmt.Fprintf(w, `<a href="%[1]s/1200.html">b</a><a href="%[1]s/999.html">a</a><a href="%[1]s/999.html">a</a>`, *origin)
		case "/2006/02/":
			fmt.Fprintf(w, `<a href="%[1]s/1300.html">c</a><a href="%[1]s/1200.html">dup across months</a>`, *origin)
		case "/999.html":
			fmt.Fprint(w, `<h3 class="entry-title">First</h3><span class="entry-date">Jan 1</span><div class="entry-body"><p>one</p></div>`)
		case "/1200.html":
			fmt.Fprint(w, `<h1 class="aentry-post__title">Second</h1><div class="aentry-post__text"><p>two</p></div>`)
		case "/1300.html":
			http.Error(w, "nope", http.StatusForbidden)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})
}

type countingRecorder struct {
	fetches   map[string]int
	entries   int
	truncated int
}

func (c *countingRecorder) ObserveFetch(page string, r models.FetchResult) {
	c.fetches[page+"/"+r.Kind.String()]++
	if r.Truncated {
		c.truncated++
	}
}
func (c *countingRecorder) ObserveEntry(models.Entry) { c.entries++ }

func TestCrawl(t *testing.T) {
	site := fakeSite{}
	var origin string
	ts := httptest.NewServer(site.handler(&origin))
	defer ts.Close()
	origin = ts.URL

	var sleeps int
	rec := &countingRecorder{fetches: map[string]int{}}
	c := New(
		Config{Origin: origin, StartYear: 2006, EndYear: 2006, Delay: time.Hour},
		NewHTTPClient(5*time.Second, 1<<20, testUA),
		parser.New(origin),
		logger.NewNop(),
		WithRecorder(rec),
		WithSleep(func(ctx context.Context, d time.Duration) {
			assert.Equal(t, time.Hour, d)
			sleeps++
		}),
	)

	entries, err := c.Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.Entry{URL: origin + "/999.html", Title: "First", Date: "Jan 1", Content: "one"}, entries[0])
	assert.Equal(t, origin+"/1200.html", entries[1].URL)
	assert.Equal(t, "Second", entries[1].Title)
	assert.Equal(t, models.UnknownDate, entries[1].Date)

	// 12 index pages + 3 entry pages, each followed by a pause.
	assert.Equal(t, 15, sleeps)
	assert.Equal(t, 2, rec.fetches["index/ok"])
	assert.Equal(t, 10, rec.fetches["index/http_error"])
	assert.Equal(t, 2, rec.fetches["entry/ok"])
	assert.Equal(t, 1, rec.fetches["entry/http_error"])
	assert.Equal(t, 2, rec.entries)
	assert.Zero(t, rec.truncated)
}

func TestEntryOverSizeCap(t *testing.T) {
	page := `<h1 class="aentry-post__title">Long</h1><div class="aentry-post__text"><p>kept</p>` +
		strings.Repeat("<p>filler</p>", 200) + `</div>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	rec := &countingRecorder{fetches: map[string]int{}}
	c := New(Config{Origin: ts.URL}, NewHTTPClient(5*time.Second, 512, testUA), parser.New(ts.URL), logger.NewNop(),
		WithRecorder(rec))

	e, ok := c.Entry(context.Background(), ts.URL+"/1.html")
	require.True(t, ok)
	assert.Equal(t, "Long", e.Title)
	assert.Contains(t, e.Content, "kept")
	assert.Equal(t, 1, rec.truncated)
	assert.Equal(t, 1, rec.entries)
}

func TestScrapeStopsOnCancel(t *testing.T) {
	site := fakeSite{}
	var origin string
	ts := httptest.NewServer(site.handler(&origin))
	defer ts.Close()
	origin = ts.URL

	ctx, cancel := context.WithCancel(context.Background())
	c := New(Config{Origin: origin}, NewHTTPClient(5*time.Second, 1<<20, testUA), parser.New(origin), logger.NewNop(),
		WithSleep(func(context.Context, time.Duration) { cancel() }))

	entries, err := c.Scrape(ctx, []string{origin + "/999.html", origin + "/1200.html"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, entries, 1)
	assert.Equal(t, "First", entries[0].Title)
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepCtx(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
	sleepCtx(context.Background(), 0)
}
