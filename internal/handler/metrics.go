package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lineEditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "script_line_edits_total",
			Help: "Total number of successful line mutations by change type.",
		},
		[]string{"change_type"},
	)

	lockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "script_lock_conflicts_total",
		Help: "Total number of lock acquisitions refused because another user holds the lock.",
	})

	versionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "script_versions_created_total",
		Help: "Total number of version checkpoints created.",
	})

	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of successful user registrations.",
	})
)
