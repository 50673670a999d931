package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records best-trade search activity. A nil *Metrics is valid and
// records nothing, so callers that do not monitor can pass no registry.
type Metrics struct {
	searches       *prometheus.CounterVec
	pathsFound     prometheus.Counter
	branchesPruned prometheus.Counter
	searchDuration prometheus.Histogram
}

// NewMetrics registers the search collectors on reg. Panics if a collector
// with the same name is already registered, matching MustRegister semantics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "searches_total",
			Help:      "Best-trade searches started, by trade type.",
		}, []string{"trade_type"}),
		pathsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "paths_found_total",
			Help:      "Complete candidate routes found across all searches.",
		}),
		branchesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "branches_pruned_total",
			Help:      "Search branches abandoned because a pool could not serve the amount.",
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "router",
			Name:      "search_duration_seconds",
			Help:      "Wall time of a full best-trade search.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	reg.MustRegister(m.searches, m.pathsFound, m.branchesPruned, m.searchDuration)
	return m
}

func (m *Metrics) searchStarted(t TradeType) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) pathFound() {
	if m == nil {
		return
	}
	m.pathsFound.Inc()
}

func (m *Metrics) branchPruned() {
	if m == nil {
		return
	}
	m.branchesPruned.Inc()
}

func (m *Metrics) observeSearchDuration(start time.Time) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(time.Since(start).Seconds())
}
