// Package metrics defines all custom Prometheus metrics for the kanban API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kanban"

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts event publication attempts.
// Labels:
//   - event_type: e.g. "CardCreated"
//   - result: "ok" or "error" (transport or serialization failure)
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain event publications, by type and result.",
	},
	[]string{"event_type", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentications at the token boundary.
// Label:
//   - reason: "missing_header", "malformed", "expired", "invalid_signature",
//     "wrong_kind"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts by outcome.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result (ok/failed).",
	},
	[]string{"result"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationDuration measures service-layer mutation latency from authorization
// through persistence (event publication excluded: it is fire-and-forget).
var MutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mutation_duration_seconds",
		Help:      "Duration of resource mutations, by resource and action.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "action"},
)
