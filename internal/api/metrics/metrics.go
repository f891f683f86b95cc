// Package metrics defines and registers the custom Prometheus metrics of the
// accounts service. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics are registered with the default registry on package init via
// promauto, so the /metrics endpoint exposes them as soon as they are touched.
// Register adds the same collectors to a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts successful self-registrations.
// Label:
//   - role: role assigned to the new account ("admin" or "normal")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through self-registration, by role.",
	},
	[]string{"role"},
)

// UsersAddedTotal counts accounts created by an administrator.
var UsersAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_added_total",
		Help:      "Total number of accounts created by administrators, by role.",
	},
	[]string{"role"},
)

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

var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of sign-outs.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// EventsDroppedTotal counts audit events discarded because a worker channel was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_events_dropped_total",
		Help:      "Total number of account events dropped because the dispatcher was saturated.",
	},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of account events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long recording a single event takes.
// Label:
//   - result: "ok" or "error"
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of account event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// Register adds every metric above to r, for servers exposing a registry
// other than the default one.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RegistrationsTotal,
		UsersAddedTotal,
		LoginsTotal,
		LogoutsTotal,
		EventsDroppedTotal,
		EventsQueueDepth,
		EventProcessingDuration,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
