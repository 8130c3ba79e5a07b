package services

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
	"ridereservation/pkg/utils"
)

// ReservationService is the lifecycle engine. Every operation runs inside
// store.Atomically and either commits one full-record write or leaves the
// store untouched.
//
// Go Learning Note — Closures as Transactions:
// Atomically takes a func(ctx) error. The operation's reads, checks and the
// final Update all happen inside that closure, and results escape through
// variables captured from the enclosing function (reservation, from). A
// non-nil return aborts before anything is written, which is why the
// mutation is applied to a fetched copy and only then stored.
type ReservationService struct {
	store    *repository.Store
	ids      utils.IDGenerator
	notifier *NotificationService
	metrics  *LifecycleMetrics
}

func NewReservationService(
	store *repository.Store,
	ids utils.IDGenerator,
	notifier *NotificationService,
	metrics *LifecycleMetrics,
) *ReservationService {
	if notifier == nil {
		notifier = NewNotificationService(nil)
	}
	return &ReservationService{
		store:    store,
		ids:      ids,
		notifier: notifier,
		metrics:  metrics,
	}
}

// CreateReservation puts a new Waiting reservation in the queue for the given
// customer.
func (s *ReservationService) CreateReservation(ctx context.Context, customerID, pickupLocation, destination string) (*entities.Reservation, error) {
	var reservation *entities.Reservation
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findCustomer(ctx, s.store, customerID); err != nil {
			return err
		}

		reservation = entities.NewReservation(s.ids.NextID(), customerID, pickupLocation, destination)
		return s.store.Reservations.Create(ctx, reservation)
	})
	if err != nil {
		s.metrics.recordFailure("create_reservation", err)
		return nil, err
	}

	s.metrics.recordCreated()
	s.notifier.NotifyReservationCreated(reservation)
	return reservation, nil
}

// DriverTakeReservation assigns a waiting reservation to the driver, provided
// the driver holds no other Accepted or OnTheWay reservation.
func (s *ReservationService) DriverTakeReservation(ctx context.Context, driverID, reservationID string) (*entities.Reservation, error) {
	return s.driverTransition(ctx, "take", driverID, reservationID, entities.StatusAccepted,
		func(r *entities.Reservation) error {
			return r.Accept(driverID)
		})
}

func (s *ReservationService) DriverOnTheWay(ctx context.Context, driverID, reservationID string) (*entities.Reservation, error) {
	return s.driverTransition(ctx, "on_the_way", driverID, reservationID, entities.StatusOnTheWay,
		func(r *entities.Reservation) error {
			return r.StartTrip()
		})
}

// DriverArrived completes the trip and records the price the driver charged.
// The price is checked by Reservation.Arrive, so an unknown driver or a
// reservation in the wrong state is reported before a bad price.
func (s *ReservationService) DriverArrived(ctx context.Context, driverID, reservationID string, price float64) (*entities.Reservation, error) {
	return s.driverTransition(ctx, "arrived", driverID, reservationID, entities.StatusArrived,
		func(r *entities.Reservation) error {
			return r.Arrive(price)
		})
}

// DriverCancel withdraws a reservation that is still Waiting. Any registered
// driver may do this: a waiting reservation has no driver to compare against.
func (s *ReservationService) DriverCancel(ctx context.Context, driverID, reservationID string) (*entities.Reservation, error) {
	return s.driverTransition(ctx, "driver_cancel", driverID, reservationID, entities.StatusCancelled,
		func(r *entities.Reservation) error {
			return r.Cancel()
		})
}

// CustomerCancel lets the owning customer withdraw a reservation that is
// still Waiting.
func (s *ReservationService) CustomerCancel(ctx context.Context, customerID, reservationID string) (*entities.Reservation, error) {
	var reservation *entities.Reservation
	var from entities.ReservationStatus
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findCustomer(ctx, s.store, customerID); err != nil {
			return err
		}
		r, err := findReservation(ctx, s.store, reservationID)
		if err != nil {
			return err
		}
		if r.CustomerID != customerID {
			return ErrCustomerMismatch
		}
		if !r.CanTransitionTo(entities.StatusCancelled) {
			return &StatusError{Current: r.Status}
		}

		from = r.Status
		if err := r.Cancel(); err != nil {
			return err
		}
		if err := s.store.Reservations.Update(ctx, r); err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		s.metrics.recordFailure("customer_cancel", err)
		return nil, err
	}

	s.metrics.recordTransition(from, reservation.Status)
	s.notifier.NotifyCustomerOfStatus(reservation, from)
	return reservation, nil
}

// driverTransition runs the checks shared by every driver-initiated edge, in
// order: the driver exists, the reservation exists, the reservation is not
// held by a different driver (every edge except take), the current status
// has an edge to `to`, and
// (for Accepted only) the driver is not already busy. apply then mutates the
// fetched copy, which replaces the stored record.
func (s *ReservationService) driverTransition(
	ctx context.Context,
	operation, driverID, reservationID string,
	to entities.ReservationStatus,
	apply func(r *entities.Reservation) error,
) (*entities.Reservation, error) {
	var reservation *entities.Reservation
	var from entities.ReservationStatus
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findDriver(ctx, s.store, driverID); err != nil {
			return err
		}
		r, err := findReservation(ctx, s.store, reservationID)
		if err != nil {
			return err
		}
		// Take only requires Waiting; a claimed reservation fails the status
		// guard below rather than the driver match.
		if to != entities.StatusAccepted && r.DriverID != "" && r.DriverID != driverID {
			return ErrDriverMismatch
		}
		if !r.CanTransitionTo(to) {
			return &StatusError{Current: r.Status}
		}
		if to == entities.StatusAccepted {
			busy, err := s.driverBusy(ctx, driverID)
			if err != nil {
				return err
			}
			if busy {
				return ErrDriverAlreadyBusy
			}
		}

		from = r.Status
		if err := apply(r); err != nil {
			return err
		}
		if err := s.store.Reservations.Update(ctx, r); err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		s.metrics.recordFailure(operation, err)
		return nil, err
	}

	s.metrics.recordTransition(from, reservation.Status)
	s.notifier.NotifyCustomerOfStatus(reservation, from)
	return reservation, nil
}

// driverBusy scans every reservation for one the driver holds in Accepted or
// OnTheWay. The comparison is on DriverID.
func (s *ReservationService) driverBusy(ctx context.Context, driverID string) (bool, error) {
	reservations, err := s.store.Reservations.List(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range reservations {
		if r.HeldBy(driverID) {
			return true, nil
		}
	}
	return false, nil
}
