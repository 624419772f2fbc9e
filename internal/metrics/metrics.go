// Package metrics holds the Prometheus collectors recorded by the executor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PassesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskgraph_passes_total",
		Help: "Total number of execution passes run to completion.",
	})

	PassesCanceled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskgraph_passes_canceled_total",
		Help: "Total number of execution passes abandoned by context cancellation.",
	})

	NodesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskgraph_nodes_executed_total",
		Help: "Total number of node work functions run across all passes.",
	})

	NodePanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskgraph_node_panics_total",
		Help: "Total number of node work functions that panicked.",
	})

	PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskgraph_pass_duration_seconds",
		Help:    "Wall-clock duration of a full execution pass.",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
	})
)
