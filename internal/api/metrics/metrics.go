// Package metrics defines and registers the custom Prometheus metrics for the
// commerce API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init time
// via promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// AuthFailuresTotal counts bearer credentials that failed authentication.
// Label:
//   - reason: "invalid_token", "expired_token", "unknown_subject", or
//     "identity_mismatch". Reasons are internal observability only; clients
//     always see an undifferentiated authentication failure.
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected bearer credentials, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// AccountDeletionsTotal counts removed accounts.
// Label:
//   - kind: "self" or "admin"
var AccountDeletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_deletions_total",
		Help:      "Total number of deleted accounts, by initiator kind.",
	},
	[]string{"kind"},
)

// OrdersPlacedTotal counts successfully placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)
