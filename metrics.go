package main

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus counters exposed on the ops metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	lendings *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biblio",
			Name:      "http_requests_total",
			Help:      "Number of processed http requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	lendings := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "biblio",
			Name:      "lending_operations_total",
			Help:      "Number of borrow and return operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	registry.MustRegister(requests, lendings)
	return &Metrics{registry: registry, requests: requests, lendings: lendings}
}

func (m *Metrics) RecordRequest(method string, code int) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func (m *Metrics) RecordLending(op, outcome string) {
	m.lendings.WithLabelValues(op, outcome).Inc()
}

// Handler provides the http handler serving the metrics in prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
