// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OffersSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_submitted_total",
			Help: "Total number of offers submitted",
		},
	)

	OfferTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_state_transitions_total",
			Help: "Total number of offer state transitions",
		},
		[]string{"transition"},
	)

	CandidaturesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidatures_created_total",
			Help: "Total number of applications created",
		},
	)

	CandidaturesWithdrawn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidatures_withdrawn_total",
			Help: "Total number of applications withdrawn",
		},
	)

	EngineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_failures_total",
			Help: "Total number of rejected lifecycle operations",
		},
		[]string{"operation", "error_code"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications delivered",
		},
		[]string{"event_type", "channel"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification delivery failures",
		},
		[]string{"event_type", "channel"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_operation_duration_seconds",
			Help: "Duration of lifecycle operations in seconds",
		},
		[]string{"operation"},
	)
)
