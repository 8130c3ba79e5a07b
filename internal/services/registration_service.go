package services

import (
	"context"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
	"ridereservation/pkg/utils"
)

// RegistrationService creates customers and drivers. Both share one contract:
// the phone number must pass the validator, otherwise nothing is written.
type RegistrationService struct {
	store        *repository.Store
	ids          utils.IDGenerator
	isValidPhone utils.PhoneValidator
	notifier     *NotificationService
	metrics      *LifecycleMetrics
}

// NewRegistrationService falls back to utils.IsValidPhoneNumber when
// isValidPhone is nil.
func NewRegistrationService(
	store *repository.Store,
	ids utils.IDGenerator,
	isValidPhone utils.PhoneValidator,
	notifier *NotificationService,
	metrics *LifecycleMetrics,
) *RegistrationService {
	if isValidPhone == nil {
		isValidPhone = utils.IsValidPhoneNumber
	}
	if notifier == nil {
		notifier = NewNotificationService(nil)
	}
	return &RegistrationService{
		store:        store,
		ids:          ids,
		isValidPhone: isValidPhone,
		notifier:     notifier,
		metrics:      metrics,
	}
}

func (s *RegistrationService) RegisterCustomer(ctx context.Context, name, phoneNumber string) (*entities.Customer, error) {
	if !s.isValidPhone(phoneNumber) {
		s.metrics.recordFailure("register_customer", ErrInvalidPhoneNumber)
		return nil, ErrInvalidPhoneNumber
	}

	customer := entities.NewCustomer(s.ids.NextID(), name, phoneNumber)
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		return s.store.Customers.Create(ctx, customer)
	})
	if err != nil {
		s.metrics.recordFailure("register_customer", err)
		return nil, err
	}

	s.notifier.NotifyCustomerRegistered(customer)
	return customer, nil
}

func (s *RegistrationService) RegisterDriver(ctx context.Context, name, phoneNumber string) (*entities.Driver, error) {
	if !s.isValidPhone(phoneNumber) {
		s.metrics.recordFailure("register_driver", ErrInvalidPhoneNumber)
		return nil, ErrInvalidPhoneNumber
	}

	driver := entities.NewDriver(s.ids.NextID(), name, phoneNumber)
	err := s.store.Atomically(ctx, func(ctx context.Context) error {
		return s.store.Drivers.Create(ctx, driver)
	})
	if err != nil {
		s.metrics.recordFailure("register_driver", err)
		return nil, err
	}

	s.notifier.NotifyDriverRegistered(driver)
	return driver, nil
}
