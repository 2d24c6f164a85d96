// Package metrics defines all custom Prometheus metrics for the project
// gateway. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "projectman"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (backend said no) or "invalid"
//     (form validation stopped the request before any network call)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"result"},
)

// ProjectOpsTotal counts project store operations.
// Labels:
//   - op: "fetch", "create", "update" or "delete"
//   - result: "success" or "failure"
var ProjectOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_ops_total",
		Help:      "Total number of project operations dispatched, by kind and outcome.",
	},
	[]string{"op", "result"},
)

// GuardRedirectsTotal counts navigations turned away by the route guard.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded navigations redirected, by reason.",
	},
	[]string{"reason"},
)
