package repository

import (
	"context"
	"errors"

	"ridereservation/internal/domain/entities"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Each repository is an ordered key-value collection keyed by entity ID.
// Create inserts a new record, Update replaces an existing one in full, and
// List scans every record in insertion order. Returned records are copies:
// mutating them has no effect until they are written back with Update.

type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByID(ctx context.Context, id string) (*entities.Customer, error)
	List(ctx context.Context) ([]*entities.Customer, error)
}

type DriverRepository interface {
	Create(ctx context.Context, driver *entities.Driver) error
	GetByID(ctx context.Context, id string) (*entities.Driver, error)
	List(ctx context.Context) ([]*entities.Driver, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entities.Reservation) error
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)
	Update(ctx context.Context, reservation *entities.Reservation) error
	List(ctx context.Context) ([]*entities.Reservation, error)
}
