// Package metrics provides Prometheus metrics instrumentation for the search engine.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simplesearch/simplesearch/pkg/logger"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	registry *prometheus.Registry
	enabled  bool

	// Ingestion metrics
	documentsIndexed prometheus.Counter
	termsIndexed     prometheus.Counter
	indexDuration    prometheus.Histogram

	// Retrieval metrics
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchResults  prometheus.Histogram

	// Persistence metrics
	commits        prometheus.Counter
	commitDuration prometheus.Histogram
	artifactBytes  prometheus.Gauge

	// Corpus state
	corpusDocuments prometheus.Gauge
	corpusTerms     prometheus.Gauge
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool
	Port    int
	Path    string

	// Histogram bucket configurations
	IndexDurationBuckets  []float64
	SearchDurationBuckets []float64
	CommitDurationBuckets []float64
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:               true,
		Port:                  9091,
		Path:                  "/metrics",
		IndexDurationBuckets:  []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		SearchDurationBuckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		CommitDurationBuckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
	}
}

// NewManager creates a new metrics manager.
func NewManager(cfg Config) *Manager {
	if !cfg.Enabled {
		return &Manager{enabled: false}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Manager{
		registry: registry,
		enabled:  true,
	}

	m.documentsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simplesearch_documents_indexed_total",
		Help: "Total number of documents indexed.",
	})
	m.termsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simplesearch_terms_indexed_total",
		Help: "Total number of post-stemming terms indexed.",
	})
	m.indexDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplesearch_index_duration_seconds",
		Help:    "Time spent indexing a single document.",
		Buckets: cfg.IndexDurationBuckets,
	})
	m.searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simplesearch_searches_total",
		Help: "Total number of search invocations, by scorer.",
	}, []string{"scorer"})
	m.searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplesearch_search_duration_seconds",
		Help:    "Time spent answering a query.",
		Buckets: cfg.SearchDurationBuckets,
	})
	m.searchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplesearch_search_results",
		Help:    "Number of results returned per query.",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})
	m.commits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simplesearch_commits_total",
		Help: "Total number of index commits.",
	})
	m.commitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplesearch_commit_duration_seconds",
		Help:    "Time spent persisting the index artifact.",
		Buckets: cfg.CommitDurationBuckets,
	})
	m.artifactBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simplesearch_artifact_bytes",
		Help: "Size of the last committed index artifact in bytes.",
	})
	m.corpusDocuments = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simplesearch_corpus_documents",
		Help: "Number of documents currently in the index.",
	})
	m.corpusTerms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simplesearch_corpus_terms",
		Help: "Number of term occurrences currently in the index.",
	})

	registry.MustRegister(
		m.documentsIndexed,
		m.termsIndexed,
		m.indexDuration,
		m.searches,
		m.searchDuration,
		m.searchResults,
		m.commits,
		m.commitDuration,
		m.artifactBytes,
		m.corpusDocuments,
		m.corpusTerms,
	)

	return m
}

// Enabled returns whether metrics collection is enabled.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// ObserveIndex records metrics for one indexed document.
func (m *Manager) ObserveIndex(numTerms int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.documentsIndexed.Inc()
	m.termsIndexed.Add(float64(numTerms))
	m.indexDuration.Observe(duration.Seconds())
}

// ObserveSearch records metrics for one query.
func (m *Manager) ObserveSearch(scorer string, numResults int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.searches.WithLabelValues(scorer).Inc()
	m.searchDuration.Observe(duration.Seconds())
	m.searchResults.Observe(float64(numResults))
}

// ObserveCommit records metrics for one commit.
func (m *Manager) ObserveCommit(artifactBytes int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.commits.Inc()
	m.commitDuration.Observe(duration.Seconds())
	m.artifactBytes.Set(float64(artifactBytes))
}

// SetCorpusSize updates the corpus state gauges.
func (m *Manager) SetCorpusSize(numDocs, numTerms int) {
	if !m.enabled {
		return
	}
	m.corpusDocuments.Set(float64(numDocs))
	m.corpusTerms.Set(float64(numTerms))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Manager) Handler() http.Handler {
	if !m.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server on the configured port.
// It returns immediately; the server is shut down when the context is cancelled.
func (m *Manager) StartServer(ctx context.Context, port int, path string) error {
	if !m.enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err, "port", port)
		}
	}()

	return nil
}
