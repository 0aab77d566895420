// Package metrics defines and registers all custom Prometheus metrics for the
// caseload API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "caseload"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatMessagesTotal counts messages appended to child chat logs.
// Label:
//   - from: "therapist" or "ai"
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages appended, by sender.",
	},
	[]string{"from"},
)

// ReplyQueueDepth tracks pending assistant replies in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var ReplyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reply_queue_depth",
		Help:      "Current number of assistant replies pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReplyDuration measures a reply from dequeue to persistence, delay included.
// Label:
//   - result: "ok" or "error"
var ReplyDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reply_duration_seconds",
		Help:      "Duration of assistant reply processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ChatSubscribers tracks open live chat feeds.
var ChatSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_subscribers",
		Help:      "Current number of open live chat feed subscriptions.",
	},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts persistence calls.
// Labels:
//   - op: "get", "set", "delete", "apply" or "ping"
//   - result: "ok" or "error"
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of store operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// StoreOperationDuration measures persistence latency.
// Label:
//   - op: "get", "set", "delete", "apply" or "ping"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of store operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)

// ObserveStore records one store call. It matches db.ObserveFunc.
func ObserveStore(op string, elapsed time.Duration, err error) {
	StoreOperationsTotal.WithLabelValues(op, result(err)).Inc()
	StoreOperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveReply records one processed assistant reply.
func ObserveReply(elapsed time.Duration, err error) {
	ReplyDuration.WithLabelValues(result(err)).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
