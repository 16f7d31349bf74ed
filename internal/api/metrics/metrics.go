// Package metrics defines and registers all custom Prometheus metrics for the
// WasteMap platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wastemap"

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

// RegistrationsTotal counts created accounts.
// Label:
//   - role: the role the account was created with
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// PasswordResetsTotal counts password lifecycle operations.
// Label:
//   - kind: "requested" (self-service flag), "operator" (forced reset), or
//     "self" (completed change)
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password lifecycle operations, by kind.",
	},
	[]string{"kind"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsCreatedTotal counts newly filed reports.
// Label:
//   - priority: "low", "medium", or "high"
var ReportsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_created_total",
		Help:      "Total number of waste reports filed, by priority.",
	},
	[]string{"priority"},
)

// EventsPublishedTotal counts refresh-hint broadcasts.
// Labels:
//   - type: event type (e.g. "report-created")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of report events published to the notification channel.",
	},
	[]string{"type", "result"},
)
