package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"journal-archive-crawler/internal/models"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrHTTPStatus = errors.New("unexpected http status")
)

// Fetcher issues a single GET and reports the outcome as a value.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) models.FetchResult
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout time.Duration, sizeCap int64, userAgent string) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// Fetch never retries. Any non-2xx status is an HTTP failure; everything
// that prevents reading a response (DNS, dial, timeout, bad gzip) is a
// transport failure.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) models.FetchResult {
	start := time.Now()
	res := models.FetchResult{URL: rawURL}
	fail := func(err error) models.FetchResult {
		res.Kind = models.FetchTransportError
		res.Message = err.Error()
		res.FetchMs = time.Since(start).Milliseconds()
		return res
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fail(fmt.Errorf("%w: %q", ErrInvalidURL, rawURL))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Kind = models.FetchHTTPError
		res.StatusCode = resp.StatusCode
		res.FetchMs = time.Since(start).Milliseconds()
		return res
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fail(err)
		}
		defer gz.Close()
		body = gz
	}

	// enforce a size cap; one extra byte tells a cut body from an exact fit
	data, err := io.ReadAll(io.LimitReader(body, h.sizeCap+1))
	if err != nil {
		return fail(err)
	}
	if int64(len(data)) > h.sizeCap {
		data = data[:h.sizeCap]
		res.Truncated = true
	}

	res.Kind = models.FetchOK
	res.Body = data
	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")
	res.FetchMs = time.Since(start).Milliseconds()
	return res
}

// FetchError converts a failed result into an error; nil for FetchOK.
func FetchError(r models.FetchResult) error {
	switch r.Kind {
	case models.FetchOK:
		return nil
	case models.FetchHTTPError:
		return fmt.Errorf("%w %d", ErrHTTPStatus, r.StatusCode)
	default:
		return errors.New(r.Message)
	}
}
