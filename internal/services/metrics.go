package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"ridereservation/internal/domain/entities"
)

// LifecycleMetrics counts committed transitions and failed operations. A nil
// *LifecycleMetrics records nothing.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	m := &LifecycleMetrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_transitions_total",
				Help: "Committed reservation status transitions",
			},
			[]string{"from", "to"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_operation_errors_total",
				Help: "Reservation operations rejected, by reason",
			},
			[]string{"operation", "reason"},
		),
	}
	reg.MustRegister(m.transitions, m.failures)
	return m
}

// recordCreated counts the creation edge, reported with from="none".
func (m *LifecycleMetrics) recordCreated() {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues("none", entities.StatusWaiting.String()).Inc()
}

func (m *LifecycleMetrics) recordTransition(from, to entities.ReservationStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *LifecycleMetrics) recordFailure(operation string, err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation, failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrDriverNotFound),
		errors.Is(err, ErrReservationNotFound):
		return "not_found"
	case errors.Is(err, ErrDriverAlreadyBusy):
		return "driver_busy"
	case errors.Is(err, ErrInvalidStatusForTransition):
		return "invalid_status"
	case errors.Is(err, ErrDriverMismatch), errors.Is(err, ErrCustomerMismatch):
		return "mismatch"
	case errors.Is(err, ErrInvalidPhoneNumber), errors.Is(err, ErrInvalidPrice):
		return "invalid_input"
	default:
		return "internal"
	}
}
