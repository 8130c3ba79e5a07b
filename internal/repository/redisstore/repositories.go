package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

type CustomerRepository struct {
	customers *collection[entities.Customer]
}

func NewCustomerRepository(client *redis.Client, prefix string) *CustomerRepository {
	return &CustomerRepository{customers: newCollection[entities.Customer](client, prefix, "customers")}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	return r.customers.insert(ctx, customer.ID, customer)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*entities.Customer, error) {
	return r.customers.get(ctx, id)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entities.Customer, error) {
	return r.customers.scan(ctx)
}

type DriverRepository struct {
	drivers *collection[entities.Driver]
}

func NewDriverRepository(client *redis.Client, prefix string) *DriverRepository {
	return &DriverRepository{drivers: newCollection[entities.Driver](client, prefix, "drivers")}
}

func (r *DriverRepository) Create(ctx context.Context, driver *entities.Driver) error {
	return r.drivers.insert(ctx, driver.ID, driver)
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (*entities.Driver, error) {
	return r.drivers.get(ctx, id)
}

func (r *DriverRepository) List(ctx context.Context) ([]*entities.Driver, error) {
	return r.drivers.scan(ctx)
}

type ReservationRepository struct {
	reservations *collection[entities.Reservation]
}

func NewReservationRepository(client *redis.Client, prefix string) *ReservationRepository {
	return &ReservationRepository{reservations: newCollection[entities.Reservation](client, prefix, "reservations")}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	return r.reservations.insert(ctx, reservation.ID, reservation)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	return r.reservations.get(ctx, id)
}

func (r *ReservationRepository) Update(ctx context.Context, reservation *entities.Reservation) error {
	return r.reservations.replace(ctx, reservation.ID, reservation)
}

func (r *ReservationRepository) List(ctx context.Context) ([]*entities.Reservation, error) {
	return r.reservations.scan(ctx)
}

// NewStore wires Redis-backed repositories sharing one client and key prefix.
func NewStore(client *redis.Client, prefix string) *repository.Store {
	return repository.NewStore(
		NewCustomerRepository(client, prefix),
		NewDriverRepository(client, prefix),
		NewReservationRepository(client, prefix),
	)
}
