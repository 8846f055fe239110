// Package metrics defines and registers all custom Prometheus metrics for the
// AttireMe identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// ── Workflow metrics ──────────────────────────────────────────────────────────

// WorkflowOutcomesTotal counts the outcome reported by each account workflow.
// Labels:
//   - operation: workflow name (e.g. "register", "authenticate", "policy_user")
//   - outcome: the closed outcome value (e.g. "Success", "EmailNotFound"), or "error"
var WorkflowOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_outcomes_total",
		Help:      "Total number of account workflow results, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// EmailSendFailuresTotal counts workflows that ended because an email could not be delivered.
// Label:
//   - kind: "confirmation" or "password_reset"
var EmailSendFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_send_failures_total",
		Help:      "Total number of emails that could not be delivered, by kind.",
	},
	[]string{"kind"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// BackendNotificationsTotal counts confirmation notifications sent to the backend.
// Label:
//   - result: "delivered", "failed" or "dropped" (queue full)
var BackendNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_notifications_total",
		Help:      "Total number of user confirmation notifications, labelled by result.",
	},
	[]string{"result"},
)

// NotifyQueueDepth tracks the number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures one backend delivery including retries.
var NotificationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_notification_duration_seconds",
		Help:      "Duration of backend notification delivery, including retries.",
		Buckets:   prometheus.DefBuckets,
	},
)
