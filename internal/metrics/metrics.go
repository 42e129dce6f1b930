package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingOutcomes counts admission protocol results by operation and outcome code
	BookingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "booking_outcomes_total",
			Help:      "Booking create/confirm/cancel results by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// AvailabilityChecks counts point availability answers by reason
	AvailabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "availability_checks_total",
			Help:      "Availability checks by result reason",
		},
		[]string{"reason"},
	)

	// SideEffectFailures counts swallowed notification, reminder and audit failures
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "side_effect_failures_total",
			Help:      "Fire-and-forget side effects that failed",
		},
		[]string{"kind"},
	)

	// RemindersDispatched counts reminders delivered by the scheduler
	RemindersDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "reminders_dispatched_total",
			Help:      "Reminders handed to the notifier",
		},
		[]string{"scheduler"},
	)

	// RequestDuration tracks HTTP latency by route pattern and status
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fieldbook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

const outcomeOK = "ok"

// ObserveBooking records the outcome of one admission protocol call. Errors
// are labelled by their code when they carry one.
func ObserveBooking(operation string, err error) {
	BookingOutcomes.WithLabelValues(operation, outcome(err)).Inc()
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func IncSideEffectFailure(kind string) {
	SideEffectFailures.WithLabelValues(kind).Inc()
}

type coded interface{ ErrorCode() string }

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return "error"
}
