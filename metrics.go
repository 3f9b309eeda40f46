// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the observability sink a Host reports run-loop counters and
// gauges to. The default, installed when NewHost is not given
// WithMetrics, is a no-op that costs nothing.
type Metrics interface {
	EventsProcessed(delta int)
	RequestsDispatched(delta int)
	PanicsRecovered(delta int)
	TimersActive(delta int)
}

type noopMetrics struct{}

func (noopMetrics) EventsProcessed(int)    {}
func (noopMetrics) RequestsDispatched(int) {}
func (noopMetrics) PanicsRecovered(int)    {}
func (noopMetrics) TimersActive(int)       {}

// PrometheusMetrics reports Host run-loop activity to the default
// prometheus registry (or a caller-supplied one via NewPrometheusMetrics).
type PrometheusMetrics struct {
	events   prometheus.Counter
	requests prometheus.Counter
	panics   prometheus.Counter
	timers   prometheus.Gauge
}

// NewPrometheusMetrics registers and returns a PrometheusMetrics bound to
// reg. Passing prometheus.DefaultRegisterer matches typical process-wide
// setup.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ivr_events_processed_total",
			Help: "Total number of events dispatched to a running flux.",
		}),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ivr_requests_dispatched_total",
			Help: "Total number of host requests resolved on behalf of a flux.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ivr_panics_recovered_total",
			Help: "Total number of panics recovered from host request handlers.",
		}),
		timers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ivr_timers_active",
			Help: "Number of timers currently scheduled and not yet fired or cancelled.",
		}),
	}
	reg.MustRegister(m.events, m.requests, m.panics, m.timers)
	return m
}

func (m *PrometheusMetrics) EventsProcessed(delta int)    { m.events.Add(float64(delta)) }
func (m *PrometheusMetrics) RequestsDispatched(delta int) { m.requests.Add(float64(delta)) }
func (m *PrometheusMetrics) PanicsRecovered(delta int)    { m.panics.Add(float64(delta)) }
func (m *PrometheusMetrics) TimersActive(delta int)       { m.timers.Add(float64(delta)) }
