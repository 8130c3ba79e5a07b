package memory

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

type DriverRepository struct {
	drivers *table[entities.Driver]
}

func NewDriverRepository() *DriverRepository {
	return &DriverRepository{
		drivers: newTable[entities.Driver](),
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver *entities.Driver) error {
	return r.drivers.insert(driver.ID, *driver)
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (*entities.Driver, error) {
	driver, exists := r.drivers.get(id)
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &driver, nil
}

func (r *DriverRepository) List(ctx context.Context) ([]*entities.Driver, error) {
	rows := r.drivers.scan()
	drivers := make([]*entities.Driver, len(rows))
	for i := range rows {
		drivers[i] = &rows[i]
	}
	return drivers, nil
}
