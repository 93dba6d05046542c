// Package metrics defines the custom Prometheus metrics of the CRM API. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is loaded; echoprometheus serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "login" or "register"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by result.",
	},
	[]string{"operation", "result"},
)

// AuthRejectionsTotal counts requests turned away by the authenticate or
// role gate middleware.
// Label:
//   - reason: "no_token", "invalid_token", "unknown_subject", "forbidden" or "error"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// ── Lead metrics ──────────────────────────────────────────────────────────────

// LeadOperationsTotal counts lead operations served over HTTP.
// Labels:
//   - operation: "create", "list", "get", "update", "delete", "add_activity", "list_activities"
//   - result: "success", "forbidden", "not_found", "invalid" or "error"
var LeadOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_operations_total",
		Help:      "Total number of lead operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Activity dispatcher metrics ───────────────────────────────────────────────

// ActivityEventsProcessedTotal counts lead events recorded as activities.
// Label:
//   - kind: "created", "status_changed", "reassigned" or "deleted"
var ActivityEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_processed_total",
		Help:      "Total number of lead events recorded in the activity log.",
	},
	[]string{"kind"},
)

// ActivityEventsErrorsTotal counts lead events that could not be recorded.
// Label:
//   - reason: "record_failed" or "queue_full"
var ActivityEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_errors_total",
		Help:      "Total number of lead events that failed to be recorded.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks pending events per worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of lead events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long recording a single event takes.
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of recording a lead event, from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
