// Package metrics exports indexer statistics to Prometheus: batch and
// phase durations, graph sizes, diagnostics per kind and tree cache use.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vlxref/internal/diag"
	"vlxref/internal/observ"
)

// Metrics is a set of collectors registered on one registry. A nil
// *Metrics discards every observation.
type Metrics struct {
	batches      prometheus.Counter
	files        prometheus.Counter
	phaseSeconds *prometheus.HistogramVec
	trees        prometheus.Gauge
	symbols      prometheus.Gauge
	references   prometheus.Gauge
	diagnostics  *prometheus.GaugeVec
	cache        *prometheus.CounterVec
}

// New registers the collectors on reg. Separate sessions need separate
// registries.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		batches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vlxref",
			Subsystem: "index",
			Name:      "batches_total",
			Help:      "Published update batches",
		}),
		files: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vlxref",
			Subsystem: "index",
			Name:      "files_total",
			Help:      "Files processed by published batches",
		}),
		// Labels: phase (build, merge, resolve, publish, batch)
		phaseSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vlxref",
			Subsystem: "index",
			Name:      "phase_seconds",
			Help:      "Duration of batch phases",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"phase"}),
		trees: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vlxref",
			Subsystem: "graph",
			Name:      "files",
			Help:      "Files in the published generation",
		}),
		symbols: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vlxref",
			Subsystem: "graph",
			Name:      "symbols",
			Help:      "Symbols in the published generation",
		}),
		references: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vlxref",
			Subsystem: "graph",
			Name:      "references",
			Help:      "Resolved references in the published generation",
		}),
		// Labels: kind (lexer, preprocessor, syntax, semantics, elaboration, io)
		diagnostics: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "vlxref",
			Subsystem: "diag",
			Name:      "current",
			Help:      "Stored diagnostics by kind",
		}, []string{"kind"}),
		// Labels: result (hit, miss)
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vlxref",
			Subsystem: "treecache",
			Name:      "lookups_total",
			Help:      "Tree cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveBatch records a published batch of files with its phase timings.
func (m *Metrics) ObserveBatch(files int, r observ.Report) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.files.Add(float64(files))
	var total float64
	for _, p := range r.Phases {
		m.phaseSeconds.WithLabelValues(p.Name).Observe(p.DurationMS / 1000)
		total += p.DurationMS
	}
	m.phaseSeconds.WithLabelValues("batch").Observe(total / 1000)
}

// SetGraph records the size of the published generation.
func (m *Metrics) SetGraph(trees, symbols, references int) {
	if m == nil {
		return
	}
	m.trees.Set(float64(trees))
	m.symbols.Set(float64(symbols))
	m.references.Set(float64(references))
}

// SetDiagnostics records the stored diagnostics per kind. Kinds missing
// from counts are reset to zero.
func (m *Metrics) SetDiagnostics(counts map[diag.Kind]int) {
	if m == nil {
		return
	}
	for _, k := range diag.Kinds() {
		m.diagnostics.WithLabelValues(k.Label()).Set(float64(counts[k]))
	}
}

// AddCacheLookups adds tree cache results since the last call.
func (m *Metrics) AddCacheLookups(hits, misses uint64) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues("hit").Add(float64(hits))
	m.cache.WithLabelValues("miss").Add(float64(misses))
}

// Handler serves the metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
