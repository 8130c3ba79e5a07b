package services

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

// QueryService provides read-only views over the reservation store. Every
// view is a full scan filtered by a predicate; results keep store order and
// are never nil.
//
// Go Learning Note — Nil vs Empty Slices:
// A nil []*Reservation encodes to JSON as null, while an empty one encodes
// as []. scan always starts from make(..., 0) so an empty result reaches
// clients as [].
type QueryService struct {
	store *repository.Store
}

func NewQueryService(store *repository.Store) *QueryService {
	return &QueryService{store: store}
}

// GetReservationForCustomer returns the reservation only if it belongs to the
// customer. A reservation owned by someone else is reported as not found.
func (s *QueryService) GetReservationForCustomer(ctx context.Context, customerID, reservationID string) (*entities.Reservation, error) {
	var reservation *entities.Reservation
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		r, err := findReservation(ctx, s.store, reservationID)
		if err != nil {
			return err
		}
		if r.CustomerID != customerID {
			return ErrReservationNotFound
		}
		reservation = r
		return nil
	})
	return reservation, err
}

func (s *QueryService) ListReservationsForCustomer(ctx context.Context, customerID string) ([]*entities.Reservation, error) {
	var reservations []*entities.Reservation
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findCustomer(ctx, s.store, customerID); err != nil {
			return err
		}
		var err error
		reservations, err = s.scan(ctx, func(r *entities.Reservation) bool {
			return r.CustomerID == customerID
		})
		return err
	})
	return reservations, err
}

// ListReservationsForDriver returns every reservation the driver has taken,
// including finished ones.
func (s *QueryService) ListReservationsForDriver(ctx context.Context, driverID string) ([]*entities.Reservation, error) {
	var reservations []*entities.Reservation
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findDriver(ctx, s.store, driverID); err != nil {
			return err
		}
		var err error
		reservations, err = s.scan(ctx, func(r *entities.Reservation) bool {
			return r.DriverID == driverID
		})
		return err
	})
	return reservations, err
}

// ListWaitingReservations returns the global Waiting queue. The requesting
// driver only has to be registered; the result is not filtered by driver.
func (s *QueryService) ListWaitingReservations(ctx context.Context, driverID string) ([]*entities.Reservation, error) {
	var reservations []*entities.Reservation
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := findDriver(ctx, s.store, driverID); err != nil {
			return err
		}
		var err error
		reservations, err = s.scan(ctx, func(r *entities.Reservation) bool {
			return r.Status == entities.StatusWaiting
		})
		return err
	})
	return reservations, err
}

func (s *QueryService) scan(ctx context.Context, match func(r *entities.Reservation) bool) ([]*entities.Reservation, error) {
	all, err := s.store.Reservations.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*entities.Reservation, 0, len(all))
	for _, r := range all {
		if match(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
