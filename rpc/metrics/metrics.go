// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus collectors for the daemon
//
// all collectors are registered on a private registry so tests and
// multiple daemons in one process do not collide with the default
// registry
package metrics

import (
	"net/http"
	"net/rpc"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/marketd/counter"
)

const namespace = "marketd"

// Metrics - the daemon's collectors
type Metrics struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

// New - create and register collectors, connections is sampled on
// every scrape
func New(connections *counter.Counter) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "calls_total",
				Help:      "RPC calls by method and result",
			},
			[]string{"method", "result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "https",
				Name:      "requests_total",
				Help:      "HTTPS requests by path and status",
			},
			[]string{"path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "https",
				Name:      "request_duration_seconds",
				Help:      "HTTPS request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"path"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "market",
				Name:      "events_total",
				Help:      "committed market events by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.calls,
		m.requests,
		m.duration,
		m.events,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "connections",
				Help:      "currently open RPC connections",
			},
			func() float64 {
				return float64(connections.Uint64())
			},
		),
	)
	return m
}

// Call - count one RPC call
func (m *Metrics) Call(method string, ok bool) {
	if nil == m {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.calls.WithLabelValues(method, result).Inc()
}

// Event - count one committed event
func (m *Metrics) Event(kind string) {
	if nil == m {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// WrapCodec - count every response written by an RPC codec
func (m *Metrics) WrapCodec(codec rpc.ServerCodec) rpc.ServerCodec {
	if nil == m {
		return codec
	}
	return &countingCodec{
		ServerCodec: codec,
		metrics:     m,
	}
}

type countingCodec struct {
	rpc.ServerCodec
	metrics *Metrics
}

func (c *countingCodec) WriteResponse(r *rpc.Response, body interface{}) error {
	c.metrics.Call(r.ServiceMethod, "" == r.Error)
	return c.ServerCodec.WriteResponse(r, body)
}

// Handler - exposition of the private registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer - access for tests and the dump command
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Middleware - record route, status and duration of each HTTPS request
//
// labels use the router's pattern, not the raw path
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); nil != rc && "" != rc.RoutePattern() {
			path = rc.RoutePattern()
		}
		m.requests.WithLabelValues(path, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
