// Package metrics bundles Prometheus collectors for the crawl pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all collectors on a dedicated registry. All methods are
// nil-safe so components can run without metrics wired up (tests, one-off
// invocations).
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal       prometheus.Counter
	FetchErrorsTotal   *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	RetriesTotal       prometheus.Counter
	PagesTotal         *prometheus.CounterVec
	ProductsTotal      *prometheus.CounterVec
	SkippedTotal       *prometheus.CounterVec
	ReconcileWrites    *prometheus.CounterVec
	ReconcileUnchanged prometheus.Counter
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "electrodex_fetches_total",
		Help: "Total HTTP fetches issued.",
	})
	fetchErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "electrodex_fetch_errors_total",
		Help: "Total fetch failures by category.",
	}, []string{"category"})
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "electrodex_fetch_duration_seconds",
		Help:    "HTTP fetch latency.",
		Buckets: prometheus.DefBuckets,
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "electrodex_fetch_retries_total",
		Help: "Total fetch retry attempts.",
	})
	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "electrodex_pages_total",
		Help: "Pages walked per source.",
	}, []string{"source"})
	products := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "electrodex_products_total",
		Help: "Product candidates extracted per source.",
	}, []string{"source"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "electrodex_products_skipped_total",
		Help: "Records dropped during normalization per source.",
	}, []string{"source"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "electrodex_reconcile_writes_total",
		Help: "Records written to the index by kind (insert/update).",
	}, []string{"kind"})
	unchanged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "electrodex_reconcile_unchanged_total",
		Help: "Records excluded from the write-set as unchanged.",
	})

	registry.MustRegister(fetches, fetchErrors, fetchDuration, retries, pages, products, skipped, writes, unchanged)

	return &Metrics{
		Registry:           registry,
		FetchesTotal:       fetches,
		FetchErrorsTotal:   fetchErrors,
		FetchDuration:      fetchDuration,
		RetriesTotal:       retries,
		PagesTotal:         pages,
		ProductsTotal:      products,
		SkippedTotal:       skipped,
		ReconcileWrites:    writes,
		ReconcileUnchanged: unchanged,
	}
}

func (m *Metrics) IncFetch() {
	if m == nil {
		return
	}
	m.FetchesTotal.Inc()
}

func (m *Metrics) IncFetchError(category string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

func (m *Metrics) IncPages(source string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) AddProducts(source string, n int) {
	if m == nil {
		return
	}
	m.ProductsTotal.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) AddSkipped(source string, n int) {
	if m == nil {
		return
	}
	m.SkippedTotal.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) AddWrites(kind string, n int) {
	if m == nil {
		return
	}
	m.ReconcileWrites.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AddUnchanged(n int) {
	if m == nil {
		return
	}
	m.ReconcileUnchanged.Add(float64(n))
}
