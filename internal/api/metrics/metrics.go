// Package metrics defines and registers all custom Prometheus metrics for the
// reservations API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hotel"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "locked", "inactive", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts requests rejected by the authentication gate.
// Label:
//   - reason: "missing", "expired", "malformed", "unknown_subject", "inactive", "locked" or "other"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by token authentication.",
	},
	[]string{"reason"},
)

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationOpsTotal counts reservation operations.
// Labels:
//   - operation: "create", "update", "confirm", "cancel", "check_in", "check_out" or "no_show"
//   - result: the error kind, or "ok"
var ReservationOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_operations_total",
		Help:      "Total number of reservation operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Invoice metrics ───────────────────────────────────────────────────────────

// InvoiceJobsTotal counts invoice jobs by outcome.
// Label:
//   - result: "generated", "failed", "duplicate" or "dropped"
var InvoiceJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoice_jobs_total",
		Help:      "Total number of invoice jobs, by result.",
	},
	[]string{"result"},
)

// InvoiceQueueDepth tracks pending invoice jobs per worker channel.
var InvoiceQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "invoice_queue_depth",
		Help:      "Current number of invoice jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// InvoiceDuration measures how long generating one invoice takes.
var InvoiceDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invoice_duration_seconds",
		Help:      "Duration of successful invoice generation.",
		Buckets:   prometheus.DefBuckets,
	},
)
