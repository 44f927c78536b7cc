package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch, sender and RPC counters/histograms, partitioned by network.

var (
	// Dispatch loop
	DispatchItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "dispatch",
		Name:      "items_total",
		Help:      "Total work items processed by the dispatch loop",
	}, []string{"network", "status"})

	DispatchBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "dispatch",
		Name:      "batches_total",
		Help:      "Total dispatch batches by final status",
	}, []string{"network", "status"})

	DispatchBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sendmsg",
		Subsystem: "dispatch",
		Name:      "batch_duration_seconds",
		Help:      "Wall-clock duration of a dispatch batch",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"network"})

	// Sender
	SenderSendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sendmsg",
		Subsystem: "sender",
		Name:      "send_duration_seconds",
		Help:      "Duration of one sign-submit-confirm cycle",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"network", "status"})

	SenderConfirmPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "sender",
		Name:      "confirm_polls_total",
		Help:      "Total signature status polls issued while waiting for commitment",
	}, []string{"network"})

	// RPC
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Total RPC calls by method and status classification",
	}, []string{"network", "method", "status"})

	RPCRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "rpc",
		Name:      "rate_limit_waits_total",
		Help:      "Total times RPC calls waited for the rate limiter",
	}, []string{"network"})

	// Circuit breaker
	BreakerStateChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "breaker",
		Name:      "state_changes_total",
		Help:      "Total circuit breaker state transitions",
	}, []string{"network", "from", "to"})

	// Alerts
	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "alert",
		Name:      "sent_total",
		Help:      "Total alerts sent",
	}, []string{"channel", "alert_type"})

	AlertsCooldownSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendmsg",
		Subsystem: "alert",
		Name:      "cooldown_skipped_total",
		Help:      "Total alerts skipped due to cooldown",
	}, []string{"channel", "alert_type"})
)
