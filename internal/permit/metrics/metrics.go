package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the permit module: intake volumes,
// review outcomes, import throughput, and read-path latency.
type Metrics struct {
	SubmissionsTotal   prometheus.Counter
	ReviewsTotal       *prometheus.CounterVec
	ImportBatchesTotal prometheus.Counter
	ImportRowsTotal    prometheus.Counter
	LettersIssued      prometheus.Counter
	TrackLookupsTotal  *prometheus.CounterVec
	DashboardDuration  prometheus.Histogram
}

// New creates a Metrics instance with all permit module metrics
// registered on the default registry.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sipeka_submissions_total",
			Help: "Total number of permit applications submitted",
		}),
		ReviewsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sipeka_reviews_total",
			Help: "Total number of review decisions, labeled by resulting status",
		}, []string{"status"}),
		ImportBatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sipeka_import_batches_total",
			Help: "Total number of successful archive import batches",
		}),
		ImportRowsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sipeka_import_rows_total",
			Help: "Total number of permit rows ingested via import",
		}),
		LettersIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sipeka_letters_issued_total",
			Help: "Total number of permit documents resolved for printing",
		}),
		TrackLookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sipeka_track_lookups_total",
			Help: "Total number of tracking lookups, labeled by outcome",
		}, []string{"outcome"}),
		DashboardDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sipeka_dashboard_duration_seconds",
			Help:    "Duration of full dashboard aggregation over the store snapshot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSubmissions records one accepted application.
func (m *Metrics) IncrementSubmissions() {
	if m == nil {
		return
	}
	m.SubmissionsTotal.Inc()
}

// IncrementReviews records one review decision with its resulting status.
func (m *Metrics) IncrementReviews(status string) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(status).Inc()
}

// RecordImport records one successful import batch of n rows.
func (m *Metrics) RecordImport(rows int) {
	if m == nil {
		return
	}
	m.ImportBatchesTotal.Inc()
	m.ImportRowsTotal.Add(float64(rows))
}

// IncrementLetters records one resolved print document.
func (m *Metrics) IncrementLetters() {
	if m == nil {
		return
	}
	m.LettersIssued.Inc()
}

// IncrementTrackLookups records one tracking lookup outcome
// ("found" or "not_found").
func (m *Metrics) IncrementTrackLookups(outcome string) {
	if m == nil {
		return
	}
	m.TrackLookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDashboard records the duration of one dashboard aggregation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDashboard(start time.Time) {
	if m == nil {
		return
	}
	m.DashboardDuration.Observe(time.Since(start).Seconds())
}
