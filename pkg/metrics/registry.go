// Package metrics implements the metrics endpoint from spec §4.6 (C6): a
// dedicated listener serving GET /metrics as a Prometheus text exposition
// and GET /health as a small JSON document, both read live off the
// pipeline's shared counters and queue depth.
//
// The metric values themselves are modeled with
// github.com/prometheus/client_golang so the exposition format and label
// conventions match the rest of the ecosystem; the transport is a
// hand-rolled single-shot HTTP/1.0 responder rather than net/http, since
// the single-recv, no-keep-alive contract has no clean expression through
// net/http's server loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Source supplies the live values the registry exposes. The collector
// package's metricsSource adapter satisfies this by reading the
// Collector's Counters and queue depth.
type Source interface {
	Received() float64
	Written() float64
	Dropped() float64
	QueueDepth() float64
}

// registry wraps a private prometheus.Registry (never the global default,
// so tests can construct as many independent servers as they like) with
// the four CounterFunc/GaugeFunc collectors spec §4.6 names.
type registry struct {
	reg *prometheus.Registry
}

func newRegistry(src Source) *registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "logcollector_received_total",
			Help: "Total number of datagrams received from the UDP socket.",
		},
		src.Received,
	))
	reg.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "logcollector_written_total",
			Help: "Total number of lines successfully written to the sink.",
		},
		src.Written,
	))
	reg.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "logcollector_dropped_total",
			Help: "Total number of datagrams dropped because the queue was full.",
		},
		src.Dropped,
	))
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "logcollector_queue_depth",
			Help: "Current number of lines waiting in the handoff queue.",
		},
		src.QueueDepth,
	))

	return &registry{reg: reg}
}
