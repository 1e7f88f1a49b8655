// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace services. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time; each
// service exposes them on its /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts bearer tokens issued at login.
// Label:
//   - role: the role claim embedded in the token ("admin" or "cliente")
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued at login.",
	},
	[]string{"role"},
)

// TokenVerificationsTotal counts verification attempts at the auth service.
// The cause labels are internal only; callers always see a single 401.
// Label:
//   - result: "ok", "invalid_token", "unknown_subject"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of token verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Delegated authorization metrics ───────────────────────────────────────────

// AuthDecisionsTotal counts allow/deny decisions made by the delegated
// authorization middleware in downstream services.
// Labels:
//   - service: the service making the decision (e.g. "orders")
//   - result: "allowed", "unauthenticated", "forbidden", "auth_unavailable"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of delegated authorization decisions, by service and result.",
	},
	[]string{"service", "result"},
)

// ── Replication metrics ───────────────────────────────────────────────────────

// ReplicationPushesTotal counts one-shot identity replication pushes.
// Label:
//   - result: "delivered" or "dropped" (push failures are never retried)
var ReplicationPushesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replication_pushes_total",
		Help:      "Total number of identity replication pushes, by result.",
	},
	[]string{"result"},
)

// SyncRequestsTotal counts replica upserts received on /sync_user.
// Label:
//   - result: "created" (new replica row) or "duplicate" (already synced)
var SyncRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_requests_total",
		Help:      "Total number of identity sync requests received, by result.",
	},
	[]string{"result"},
)
