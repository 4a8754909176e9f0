// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/metrics/metrics.go
// Summary: Prometheus collectors for the synchronization core.
// Usage: Create one Metrics per engine; a nil *Metrics records nothing.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the engine collectors under a private registry so several
// engines (tests, replays) never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	events         *prometheus.CounterVec
	renders        *prometheus.CounterVec
	droppedRenders prometheus.Counter
	coalesced      prometheus.Counter
	reloads        *prometheus.CounterVec
	tracked        prometheus.Gauge
	renderSeconds  prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_events_total",
				Help: "Compositor notifications handled, by signal",
			},
			[]string{"signal"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_renders_total",
				Help: "Layout passes executed, by reason of the first request",
			},
			[]string{"reason"},
		),
		droppedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilewm_renders_dropped_total",
			Help: "Render requests dropped while frozen",
		}),
		coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilewm_renders_coalesced_total",
			Help: "Render requests merged into an already pending pass",
		}),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_reloads_total",
				Help: "Tree reloads, by trigger",
			},
			[]string{"reason"},
		),
		tracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tilewm_tracked_windows",
			Help: "Windows currently present in the tree",
		}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilewm_render_duration_seconds",
			Help:    "Duration of layout passes",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.events, m.renders, m.droppedRenders, m.coalesced, m.reloads, m.tracked, m.renderSeconds)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Event(signal string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(signal).Inc()
}

func (m *Metrics) Render(reason string, seconds float64) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(reason).Inc()
	m.renderSeconds.Observe(seconds)
}

func (m *Metrics) RenderDropped() {
	if m == nil {
		return
	}
	m.droppedRenders.Inc()
}

func (m *Metrics) RenderCoalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

func (m *Metrics) Reload(reason string) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetTracked(n int) {
	if m == nil {
		return
	}
	m.tracked.Set(float64(n))
}
