// Package metrics registers the Prometheus collectors for refresh cycles.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the aggregator.
type Metrics struct {
	FetchTotal     *prometheus.CounterVec
	ProviderEvents *prometheus.GaugeVec
	CycleDuration  prometheus.Summary
	SnapshotEvents prometheus.Gauge
	LastPublishTS  prometheus.Gauge
}

// New registers all collectors on the given registerer. Tests pass their own
// registry; the server passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportsync",
			Name:      "fetch_total",
			Help:      "Provider fetch attempts by outcome",
		}, []string{"provider", "outcome"}),
		ProviderEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sportsync",
			Name:      "provider_events",
			Help:      "Events contributed by each provider in the current snapshot",
		}, []string{"provider"}),
		CycleDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "sportsync",
			Name:      "refresh_cycle_duration_seconds",
			Help:      "Wall-clock time of a refresh cycle",
		}),
		SnapshotEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sportsync",
			Name:      "snapshot_events",
			Help:      "Events in the current published snapshot",
		}),
		LastPublishTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sportsync",
			Name:      "last_publish_timestamp_seconds",
			Help:      "Unix timestamp of the last published snapshot",
		}),
	}
	reg.MustRegister(m.FetchTotal, m.ProviderEvents, m.CycleDuration, m.SnapshotEvents, m.LastPublishTS)
	return m
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.CycleDuration.Observe(d.Seconds())
}

// RecordFetch counts one provider attempt by outcome.
func (m *Metrics) RecordFetch(provider, outcome string) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordPublish updates snapshot gauges after a publish.
func (m *Metrics) RecordPublish(total int, perSource map[string]int, at time.Time) {
	if m == nil {
		return
	}
	m.SnapshotEvents.Set(float64(total))
	m.LastPublishTS.Set(float64(at.Unix()))
	for src, n := range perSource {
		m.ProviderEvents.WithLabelValues(src).Set(float64(n))
	}
}
