// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts self-service registrations.
// Label:
//   - result: "success", "invalid", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// SessionsIssuedTotal counts issued sessions.
// Label:
//   - lifetime: "default" or "remember"
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued, by lifetime policy.",
	},
	[]string{"lifetime"},
)

// SessionsRevokedTotal counts explicit session revocations (logout and
// profile-triggered replacement).
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions explicitly revoked.",
	},
)

// AuthzDecisionsTotal counts authorization decisions.
// Labels:
//   - policy: the named policy evaluated (e.g. "Admin")
//   - result: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of policy evaluations, by policy and result.",
	},
	[]string{"policy", "result"},
)
