package memory

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

// ReservationRepository stores reservations in memory. There are no secondary
// indexes: filtering by customer, driver or status is left to callers, which
// scan List.
type ReservationRepository struct {
	reservations *table[entities.Reservation]
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		reservations: newTable[entities.Reservation](),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	return r.reservations.insert(reservation.ID, *reservation)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	reservation, exists := r.reservations.get(id)
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &reservation, nil
}

// Update replaces the whole stored record. Partial updates are not supported.
func (r *ReservationRepository) Update(ctx context.Context, reservation *entities.Reservation) error {
	return r.reservations.replace(reservation.ID, *reservation)
}

func (r *ReservationRepository) List(ctx context.Context) ([]*entities.Reservation, error) {
	rows := r.reservations.scan()
	reservations := make([]*entities.Reservation, len(rows))
	for i := range rows {
		reservations[i] = &rows[i]
	}
	return reservations, nil
}
