package memory

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
)

type CustomerRepository struct {
	customers *table[entities.Customer]
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: newTable[entities.Customer](),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	return r.customers.insert(customer.ID, *customer)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*entities.Customer, error) {
	customer, exists := r.customers.get(id)
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entities.Customer, error) {
	rows := r.customers.scan()
	customers := make([]*entities.Customer, len(rows))
	for i := range rows {
		customers[i] = &rows[i]
	}
	return customers, nil
}
