// Package metrics exposes prometheus instrumentation for image resolution
// and recommendation filtering.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the resolution pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Resolved images by the stage that produced them
	ResolutionOutcome *prometheus.CounterVec

	// Stage failures by stage
	StageFailures *prometheus.CounterVec

	// Latency of each attempted stage
	StageLatency *prometheus.HistogramVec

	// Image cache hits and misses
	CacheLookups *prometheus.CounterVec

	// Malformed rows skipped by the recommendation filter
	SkippedRows prometheus.Counter

	// Size of filtered recommendation results
	FilterResults prometheus.Histogram
}

// New creates a Metrics instance registered with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ResolutionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutriview_image_resolutions_total",
			Help: "Total image resolutions by the source that satisfied them",
		}, []string{"source"}), // source: Curated, Fetched, Scraped, Placeholder

		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutriview_image_stage_failures_total",
			Help: "Total fallback stage failures by stage",
		}, []string{"stage"}),

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutriview_image_stage_duration_seconds",
			Help:    "Duration of attempted image resolution stages",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutriview_image_cache_lookups_total",
			Help: "Image cache lookups by result",
		}, []string{"result"}), // result: hit, miss

		SkippedRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutriview_recommendation_skipped_rows_total",
			Help: "Malformed recommendation rows skipped during filtering",
		}),

		FilterResults: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nutriview_recommendation_results",
			Help:    "Number of recommendation rows returned per filter call",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		}),
	}
}

// IncrementResolution records the source that satisfied a resolution
func (m *Metrics) IncrementResolution(source string) {
	if m != nil {
		m.ResolutionOutcome.WithLabelValues(source).Inc()
	}
}

// IncrementStageFailure records a failed fallback stage
func (m *Metrics) IncrementStageFailure(stage string) {
	if m != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveStageLatency records how long a stage took
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache hit or miss
func (m *Metrics) IncrementCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveFilter records a filter pass
func (m *Metrics) ObserveFilter(results, skipped int) {
	if m != nil {
		m.FilterResults.Observe(float64(results))
		m.SkippedRows.Add(float64(skipped))
	}
}
