package repository

import (
	"context"
	"sync"
)

// Store bundles the three entity collections and serializes the operations
// that run against them. Services share one Store; nothing in the repository
// layer knows about reservation lifecycle rules.
//
// Go Learning Note — Mutex vs Channels:
// Every service operation is a read-check-write sequence across several
// collections (e.g. "is this driver busy?" followed by "assign the driver").
// Wrapping the whole sequence in one sync.Mutex is the simplest way to make
// it atomic. The lock only covers this process: several server instances
// sharing one Redis would need a distributed lock instead.
type Store struct {
	Customers    CustomerRepository
	Drivers      DriverRepository
	Reservations ReservationRepository

	mu sync.Mutex
}

func NewStore(customers CustomerRepository, drivers DriverRepository, reservations ReservationRepository) *Store {
	return &Store{
		Customers:    customers,
		Drivers:      drivers,
		Reservations: reservations,
	}
}

// Atomically runs fn while holding the store lock. fn must not call
// Atomically itself.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}
