package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// SearchMetricsCollector handles all branch-and-bound search metrics
type SearchMetricsCollector struct {
	searchesTotal   *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	statesGenerated prometheus.Counter
	statesPruned    *prometheus.CounterVec
	cappedBuilds    prometheus.Counter
	peakFrontier    prometheus.Gauge
}

// NewSearchMetricsCollector creates a new search metrics collector
func NewSearchMetricsCollector() *SearchMetricsCollector {
	return &SearchMetricsCollector{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Total number of blueprint searches by branching policy",
			},
			[]string{"policy"},
		),

		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_duration_seconds",
				Help:      "Wall time of one blueprint search",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"policy"},
		),

		statesGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_generated_total",
				Help:      "Successor states produced by the transition generator",
			},
		),

		statesPruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_pruned_total",
				Help:      "States discarded by reason (dedup, bound)",
			},
			[]string{"reason"},
		),

		cappedBuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "capped_builds_total",
				Help:      "Builds refused because the robot type was at its cap",
			},
		),

		peakFrontier: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "peak_frontier",
				Help:      "Largest frontier of the most recent search",
			},
		),
	}
}

// Register registers all search metrics with the Prometheus registry
func (c *SearchMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.searchesTotal,
		c.searchDuration,
		c.statesGenerated,
		c.statesPruned,
		c.cappedBuilds,
		c.peakFrontier,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSearch records the statistics of one finished search
func (c *SearchMetricsCollector) RecordSearch(policy string, stats geode.Stats) {
	c.searchesTotal.WithLabelValues(policy).Inc()
	c.searchDuration.WithLabelValues(policy).Observe(stats.Elapsed.Seconds())

	c.statesGenerated.Add(float64(stats.Generated))
	c.statesPruned.WithLabelValues("dedup").Add(float64(stats.PrunedDedup))
	c.statesPruned.WithLabelValues("bound").Add(float64(stats.PrunedBound))
	c.cappedBuilds.Add(float64(stats.CappedBuilds))

	c.peakFrontier.Set(float64(stats.PeakFrontier))
}
