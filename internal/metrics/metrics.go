// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exposes simulation statistics as Prometheus metrics.
//
package metrics

import (
	"net/http"

	"github.com/db47h/sigsim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the simulation metrics. It implements sigsim.Observer.
//
type Registry struct {
	TicksTotal             prometheus.Counter
	UnstableTicksTotal     prometheus.Counter
	TickDuration           prometheus.Histogram
	TickIterations         prometheus.Histogram
	ProcessorFailuresTotal *prometheus.CounterVec
	Components             prometheus.Gauge
	Wires                  prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry returns a registry with all metrics initialized.
//
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.TicksTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "sigsim_ticks_total",
		Help: "Total number of simulation ticks",
	})
	r.UnstableTicksTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "sigsim_unstable_ticks_total",
		Help: "Ticks that hit the iteration cap before stabilizing",
	})
	r.TickDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "sigsim_tick_duration_seconds",
		Help:    "Duration of simulation ticks in seconds",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
	r.TickIterations = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "sigsim_tick_iterations",
		Help:    "Stabilization iterations per tick",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	r.ProcessorFailuresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "sigsim_processor_failures_total",
		Help: "Recovered processor panics",
	}, []string{"type"})
	r.Components = f.NewGauge(prometheus.GaugeOpts{
		Name: "sigsim_components",
		Help: "Number of components in the simulated circuit",
	})
	r.Wires = f.NewGauge(prometheus.GaugeOpts{
		Name: "sigsim_wires",
		Help: "Number of wires in the simulated circuit",
	})
	return r
}

// TickDone implements sigsim.Observer.
//
func (r *Registry) TickDone(st sigsim.TickStats) {
	r.TicksTotal.Inc()
	if !st.Stable {
		r.UnstableTicksTotal.Inc()
	}
	r.TickDuration.Observe(st.Duration.Seconds())
	r.TickIterations.Observe(float64(st.Iterations))
	r.Components.Set(float64(st.Components))
	r.Wires.Set(float64(st.Wires))
}

// ProcessorFailed implements sigsim.Observer.
//
func (r *Registry) ProcessorFailed(c *sigsim.Component, _ error) {
	r.ProcessorFailuresTotal.WithLabelValues(c.Type).Inc()
}

// Prometheus returns the underlying Prometheus registry.
//
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

// Handler returns an HTTP handler serving the metrics.
//
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
