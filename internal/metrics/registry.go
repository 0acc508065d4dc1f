package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/geode-solver/internal/solver/geode"
)

const (
	// Namespace for all metrics
	namespace = "geodes"
	// Subsystem for search metrics
	subsystem = "solver"
)

// Registry is the global Prometheus registry for all metrics
var Registry *prometheus.Registry

// SearchRecorder records the outcome of finished searches.
// Callers outside this package depend on the interface so the search
// itself stays free of metric code.
type SearchRecorder interface {
	RecordSearch(policy string, stats geode.Stats)
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry, nil when disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}
