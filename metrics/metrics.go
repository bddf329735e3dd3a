// Package metrics exposes the engine's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpirySweeps counts completed status sweeps.
	ExpirySweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_expiry_sweeps_total",
		Help: "Number of expiry status sweeps run.",
	})

	// StatusTransitions counts persisted status changes by new status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_status_transitions_total",
		Help: "Number of item status transitions persisted.",
	}, []string{"status"})

	// WasteEvents counts waste records written.
	WasteEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_waste_events_total",
		Help: "Number of waste records created.",
	})

	// CookEvents counts successful recipe cooks.
	CookEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_cook_events_total",
		Help: "Number of recipes cooked against the inventory.",
	})

	// DeductionConflicts counts two-phase deductions lost to a concurrent
	// writer.
	DeductionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_deduction_conflicts_total",
		Help: "Number of deductions aborted by concurrent updates.",
	})
)
