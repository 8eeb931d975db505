package httpinterface

import (
	"math/big"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "fiora"

type metrics struct {
	registry *prometheus.Registry

	inFlight         prometheus.Gauge
	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	offerTransitions *prometheus.CounterVec
	batchFailures    *prometheus.CounterVec
	feesCollected    prometheus.Counter
	rewardsCrafted   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
		offerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "escrow",
			Name:      "offer_transitions_total",
			Help:      "Total number of offers moved to a new status.",
		}, []string{"status"}),
		batchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "escrow",
			Name:      "batch_failures_total",
			Help:      "Total number of reverted instruction batches.",
		}, []string{"operation"}),
		feesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "escrow",
			Name:      "fees_collected_total",
			Help:      "Total amount of native fees withdrawn by the owner.",
		}),
		rewardsCrafted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "escrow",
			Name:      "rewards_crafted_total",
			Help:      "Total number of reward batches minted.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.inFlight, m.requests, m.duration,
		m.offerTransitions, m.batchFailures, m.feesCollected, m.rewardsCrafted,
	)
	return m
}

func (m *metrics) recordRequest(
	method, route string, status int, elapsed time.Duration,
) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *metrics) recordTransition(status string) {
	m.offerTransitions.WithLabelValues(status).Inc()
}

func (m *metrics) recordBatchFailure(operation string) {
	m.batchFailures.WithLabelValues(operation).Inc()
}

func (m *metrics) recordFeesCollected(amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	m.feesCollected.Add(f)
}
