// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParcelsDepositedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_parcels_deposited_total",
		Help: "Total number of parcels placed into a locker.",
	})

	ParcelsPickedUpTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_parcels_picked_up_total",
		Help: "Total number of parcels collected with a valid pass.",
	})

	ParcelsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_parcels_expired_total",
		Help: "Total number of uncollected parcels expired after the hold period.",
	})

	PassesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_passes_issued_total",
		Help: "Total number of one-time passes issued.",
	})

	PassesPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_passes_purged_total",
		Help: "Total number of expired unconsumed passes deleted by the cleanup job.",
	})

	PickupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_pickup_failures_total",
		Help: "Total number of pickup attempts rejected with an invalid code.",
	})

	ReservationConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcellocker_reservation_conflicts_total",
		Help: "Total number of optimistic concurrency conflicts retried by command handlers.",
	})

	NoLockerAvailableTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcellocker_no_locker_available_total",
		Help: "Total number of deposits rejected because no locker of the size was free.",
	},
		[]string{"size"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcellocker_operation_errors_total",
		Help: "Total number of unexpected errors by operation.",
	},
		[]string{"operation"},
	)
)
