package metrics

import (
	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func SetupPrometheus(extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	// Add Go module build info, runtime metrics and process collectors.
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promRegistry.MustRegister(extraCollectors...)

	return promRegistry
}

// NewCacheCollectors exposes freecache's own bookkeeping as gauges.
func NewCacheCollectors(namespace, subsystem string, cache *freecache.Cache) []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "projection_cache_entries",
			Help:      "Number of projection responses currently cached",
		}, func() float64 {
			return float64(cache.EntryCount())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "projection_cache_evictions",
			Help:      "Number of projection responses evicted to make room for new ones",
		}, func() float64 {
			return float64(cache.EvacuateCount())
		}),
	}
}
