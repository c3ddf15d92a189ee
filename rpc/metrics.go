// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "netlab_rpc"

// Call outcome labels.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeClosed    = "closed"
	outcomeCancelled = "cancelled"
)

// Collector is a prometheus.Collector that collects metrics about
// RPC connections. A nil *Collector records nothing.
type Collector struct {
	calls             *prometheus.CounterVec
	callDuration      *prometheus.HistogramVec
	pendingCalls      prometheus.Gauge
	subscriptions     prometheus.Gauge
	droppedMessages   *prometheus.CounterVec
	keepAliveFailures prometheus.Counter
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "calls_total",
				Help:      "The number of calls made, by convention and outcome.",
			}, []string{"convention", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "call_duration_seconds",
				Help:      "The time taken for a call to complete.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
			}, []string{"convention"},
		),
		pendingCalls: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "pending_calls",
				Help:      "The number of requests waiting for a response.",
			},
		),
		subscriptions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "subscriptions",
				Help:      "The number of registered event handles.",
			},
		),
		droppedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "dropped_messages_total",
				Help:      "The number of messages received for an unknown id or handle.",
			}, []string{"kind"},
		),
		keepAliveFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "keepalive_failures_total",
				Help:      "The number of keep-alive pings that went unanswered.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.calls.Describe(ch)
	c.callDuration.Describe(ch)
	c.pendingCalls.Describe(ch)
	c.subscriptions.Describe(ch)
	c.droppedMessages.Describe(ch)
	c.keepAliveFailures.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.calls.Collect(ch)
	c.callDuration.Collect(ch)
	c.pendingCalls.Collect(ch)
	c.subscriptions.Collect(ch)
	c.droppedMessages.Collect(ch)
	c.keepAliveFailures.Collect(ch)
}

func (c *Collector) observeCall(conv convention, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(string(conv), outcome).Inc()
	c.callDuration.WithLabelValues(string(conv)).Observe(elapsed.Seconds())
}

func (c *Collector) pendingAdded(delta int) {
	if c == nil {
		return
	}
	c.pendingCalls.Add(float64(delta))
}

func (c *Collector) subscriptionsAdded(delta int) {
	if c == nil {
		return
	}
	c.subscriptions.Add(float64(delta))
}

func (c *Collector) dropped(kind string) {
	if c == nil {
		return
	}
	c.droppedMessages.WithLabelValues(kind).Inc()
}

func (c *Collector) keepAliveFailed() {
	if c == nil {
		return
	}
	c.keepAliveFailures.Inc()
}
