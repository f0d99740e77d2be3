// Package observability exposes Prometheus instrumentation for roster operations.
package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/mergington/internal/domain"
)

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "signups_total",
		Help:      "Number of successful signups per activity.",
	}, []string{"activity"})

	removalCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "removals_total",
		Help:      "Number of successful removals per activity.",
	}, []string{"activity"})

	rejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "rejections_total",
		Help:      "Number of rejected roster operations grouped by operation and reason.",
	}, []string{"operation", "reason"})

	participantsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "participants",
		Help:      "Current number of registered participants per activity.",
	}, []string{"activity"})

	resetCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "resets_total",
		Help:      "Number of times the roster was restored to its seed dataset.",
	})
)

func init() {
	prometheus.MustRegister(signupCounter, removalCounter, rejectionCounter, participantsGauge, resetCounter)
}

// RosterRecorder implements domain.Recorder on top of the package collectors.
type RosterRecorder struct{}

var _ domain.Recorder = RosterRecorder{}

// RecordSignup counts a successful signup.
func (RosterRecorder) RecordSignup(activity string) {
	signupCounter.WithLabelValues(activity).Inc()
}

// RecordRemoval counts a successful removal.
func (RosterRecorder) RecordRemoval(activity string) {
	removalCounter.WithLabelValues(activity).Inc()
}

// RecordRejection counts a failed operation labelled by its failure kind.
func (RosterRecorder) RecordRejection(operation string, err error) {
	rejectionCounter.WithLabelValues(operation, Reason(err)).Inc()
}

// RecordParticipants sets the participant gauge for one activity. It matches roster.SizeObserver.
func (RosterRecorder) RecordParticipants(activity string, participants int) {
	participantsGauge.WithLabelValues(activity).Set(float64(participants))
}

// RecordReset counts a reset to the seed dataset.
func (RosterRecorder) RecordReset() {
	resetCounter.Inc()
}

// Reason maps a roster error to a bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, domain.ErrParticipantNotFound):
		return "participant_not_found"
	case errors.Is(err, domain.ErrInvalidParticipant):
		return "invalid_participant"
	case errors.Is(err, domain.ErrActivityFull):
		return "activity_full"
	default:
		return "unknown"
	}
}
