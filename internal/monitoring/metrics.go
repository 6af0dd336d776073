package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"journal-archive-crawler/internal/models"
)

// Metrics holds the Prometheus collectors for a crawl-and-classify run.
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	TruncatedTotal *prometheus.CounterVec
	EntriesTotal   prometheus.Counter
	SentinelsTotal *prometheus.CounterVec
	DecisionsTotal *prometheus.CounterVec
	SkippedTotal   prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		FetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_fetches_total",
			Help: "Archive pages fetched, by page kind and outcome.",
		}, []string{"page", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journal_fetch_duration_seconds",
			Help:    "Duration of archive page fetches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"page"}),
		TruncatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_truncated_bodies_total",
			Help: "Fetched bodies cut at the size cap, by page kind.",
		}, []string{"page"}),
		EntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "journal_entries_extracted_total",
			Help: "Entries extracted from fetched entry pages.",
		}),
		SentinelsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_extraction_misses_total",
			Help: "Entry fields that fell back to their sentinel value.",
		}, []string{"field"}),
		DecisionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_classifications_total",
			Help: "Classified corpus blocks, by final label and deciding rule.",
		}, []string{"label", "rule"}),
		SkippedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "journal_blocks_skipped_total",
			Help: "Corpus blocks skipped as empty or malformed.",
		}),
	}
}

func (m *Metrics) ObserveFetch(page string, r models.FetchResult) {
	m.FetchesTotal.WithLabelValues(page, r.Kind.String()).Inc()
	m.FetchDuration.WithLabelValues(page).Observe(float64(r.FetchMs) / 1000)
	if r.Truncated {
		m.TruncatedTotal.WithLabelValues(page).Inc()
	}
}

func (m *Metrics) ObserveEntry(e models.Entry) {
	m.EntriesTotal.Inc()
	if e.Title == models.NoTitle {
		m.SentinelsTotal.WithLabelValues("title").Inc()
	}
	if e.Date == models.UnknownDate {
		m.SentinelsTotal.WithLabelValues("date").Inc()
	}
	if e.Content == models.ContentNotFound {
		m.SentinelsTotal.WithLabelValues("content").Inc()
	}
}

func (m *Metrics) ObserveDecision(d models.Classification) {
	label, rule := "prose", d.Rule
	if d.IsPoem {
		label = "poem"
	}
	if rule == "" {
		rule = "heuristic"
	}
	m.DecisionsTotal.WithLabelValues(label, rule).Inc()
}

func (m *Metrics) ObserveSkipped(n int) { m.SkippedTotal.Add(float64(n)) }
