// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the driver's exploration counters (spec.md §6 output
// contract: numberOfStates, time) as Prometheus instruments, so a
// long-running analysis server can scrape exploration health the same
// way it would scrape any other Go service.
type Metrics struct {
	StatesExplored     prometheus.Counter
	ExplorationSeconds prometheus.Histogram
	FrontierSize       prometheus.Gauge
}

// NewMetrics registers the kernel's metrics against reg, or creates
// unregistered standalone instruments when reg is nil (the common case
// for ad hoc analyses and unit tests, where nothing scrapes /metrics).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StatesExplored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aam_states_explored_total",
			Help: "Number of abstract-machine states dequeued and expanded.",
		}),
		ExplorationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aam_exploration_duration_seconds",
			Help:    "Wall-clock duration of a single Run call.",
			Buckets: prometheus.DefBuckets,
		}),
		FrontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aam_frontier_size",
			Help: "Number of states currently pending in the work queue.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.StatesExplored, m.ExplorationSeconds, m.FrontierSize)
	}
	return m
}
