// Package metrics exposes Prometheus instrumentation for the event loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the server's Prometheus collectors. All increments
// happen on the hub goroutine.
type Metrics struct {
	EventsTotal       *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	TablesActive      prometheus.Gauge
	ConnectionsActive prometheus.Gauge
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "partela_events_total",
			Help: "Inbound socket events processed, by event name.",
		}, []string{"event"}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "partela_errors_total",
			Help: "Error events unicast to clients, by error code.",
		}, []string{"code"}),
		TablesActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "partela_tables_active",
			Help: "Tables currently held in the registry.",
		}),
		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "partela_connections_active",
			Help: "Open websocket connections.",
		}),
	}
}
