// Package metrics registers the Prometheus instruments for the lookup
// pipeline. Instances register on the default registry via promauto and are
// exposed by the /metrics route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for the lookups counter.
const (
	OutcomeAccount  = "account"
	OutcomeGroup    = "group"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
)

// Metrics holds the application's Prometheus instruments.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	CacheHits      prometheus.Counter
}

// New creates and registers all instruments.
func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tginfo_lookups_total",
			Help: "Total lookups by terminal outcome",
		}, []string{"outcome"}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tginfo_lookup_duration_seconds",
			Help:    "End-to-end lookup latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tginfo_cache_hits_total",
			Help: "Lookups served from the resolution cache",
		}),
	}
}

// ObserveLookup records one finished lookup.
func (m *Metrics) ObserveLookup(outcome string, took time.Duration) {
	m.Lookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(took.Seconds())
}
