package services

import (
	"context"
	"errors"
	"fmt"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

var (
	ErrInvalidPhoneNumber         = errors.New("phone number is not valid")
	ErrCustomerNotFound           = errors.New("customer is not registered")
	ErrDriverNotFound             = errors.New("driver is not registered")
	ErrReservationNotFound        = errors.New("reservation not found")
	ErrDriverAlreadyBusy          = errors.New("driver already has an active reservation")
	ErrInvalidStatusForTransition = errors.New("invalid status for transition")
	ErrDriverMismatch             = errors.New("reservation is assigned to another driver")
	ErrCustomerMismatch           = errors.New("reservation belongs to another customer")
	ErrInvalidPrice               = entities.ErrInvalidPrice
)

// StatusError reports a transition attempted from the wrong status. It
// matches ErrInvalidStatusForTransition under errors.Is.
type StatusError struct {
	Current entities.ReservationStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reservation is %s: %s", e.Current, ErrInvalidStatusForTransition)
}

func (e *StatusError) Unwrap() error {
	return ErrInvalidStatusForTransition
}

// The find helpers translate repository.ErrNotFound into the domain error for
// each collection, passing any other storage error through.

func findCustomer(ctx context.Context, store *repository.Store, id string) (*entities.Customer, error) {
	customer, err := store.Customers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

func findDriver(ctx context.Context, store *repository.Store, id string) (*entities.Driver, error) {
	driver, err := store.Drivers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDriverNotFound
	}
	return driver, err
}

func findReservation(ctx context.Context, store *repository.Store, id string) (*entities.Reservation, error) {
	reservation, err := store.Reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReservationNotFound
	}
	return reservation, err
}
