package memory

import "ridereservation/internal/repository"

// NewStore wires fresh in-memory repositories into a repository.Store.
func NewStore() *repository.Store {
	return repository.NewStore(
		NewCustomerRepository(),
		NewDriverRepository(),
		NewReservationRepository(),
	)
}
