// Package metrics holds the Prometheus instruments of the ingestion server.
// All recording methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maldun/UltraMekCore/models"
)

const namespace = "ultramek"

// Metrics contains the parse, request and lookup instruments
type Metrics struct {
	registry *prometheus.Registry

	ParsesTotal       *prometheus.CounterVec
	ParseDuration     *prometheus.HistogramVec
	RequestsTotal     *prometheus.CounterVec
	UnitLookups       *prometheus.CounterVec
	ActiveConnections prometheus.Gauge
}

// New creates the instruments and registers them on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ParsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "parses_total",
				Help:      "Total number of pipeline runs",
			},
			[]string{"format", "status"},
		),

		ParseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "duration_seconds",
				Help:      "Pipeline run duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatcher",
				Name:      "requests_total",
				Help:      "Total number of dispatched requests",
			},
			[]string{"type", "status"},
		),

		UnitLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "units",
				Name:      "lookups_total",
				Help:      "Unit resolutions by the source that answered (custom, store, archive, miss)",
			},
			[]string{"source"},
		),

		ActiveConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "dispatcher",
				Name:      "active_connections",
				Help:      "Currently open websocket connections",
			},
		),
	}

	m.registry.MustRegister(
		m.ParsesTotal,
		m.ParseDuration,
		m.RequestsTotal,
		m.UnitLookups,
		m.ActiveConnections,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveParse records one pipeline run
func (m *Metrics) ObserveParse(format models.Format, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ParsesTotal.WithLabelValues(string(format), status(err)).Inc()
	m.ParseDuration.WithLabelValues(string(format)).Observe(d.Seconds())
}

// RecordRequest increments the dispatched request counter
func (m *Metrics) RecordRequest(requestType string, err error) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(requestType, status(err)).Inc()
}

// RecordUnitLookup counts a unit resolution by the source that answered
func (m *Metrics) RecordUnitLookup(source string) {
	if m == nil {
		return
	}
	m.UnitLookups.WithLabelValues(source).Inc()
}

// ConnectionOpened increments the open connection gauge
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.ActiveConnections.Inc()
}

// ConnectionClosed decrements the open connection gauge
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.ActiveConnections.Dec()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
