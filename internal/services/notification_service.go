package services

import (
	"log/slog"

	"ridereservation/internal/domain/entities"
)

// NotificationService announces lifecycle events. In a real deployment this
// would fan out to push or SMS clients; here every event is a structured log
// line.
type NotificationService struct {
	logger *slog.Logger
}

func NewNotificationService(logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{logger: logger.With(slog.String("component", "notifications"))}
}

func (s *NotificationService) NotifyCustomerRegistered(customer *entities.Customer) {
	s.logger.Info("customer registered", slog.String("customer_id", customer.ID))
}

func (s *NotificationService) NotifyDriverRegistered(driver *entities.Driver) {
	s.logger.Info("driver registered", slog.String("driver_id", driver.ID))
}

// NotifyReservationCreated tells drivers a new reservation joined the waiting queue.
func (s *NotificationService) NotifyReservationCreated(r *entities.Reservation) {
	s.logger.Info("reservation waiting for a driver",
		slog.String("reservation_id", r.ID),
		slog.String("customer_id", r.CustomerID),
		slog.String("pickup_location", r.PickupLocation),
		slog.String("destination", r.Destination),
	)
}

// NotifyCustomerOfStatus tells the customer their reservation moved to a new status.
func (s *NotificationService) NotifyCustomerOfStatus(r *entities.Reservation, from entities.ReservationStatus) {
	attrs := []any{
		slog.String("reservation_id", r.ID),
		slog.String("customer_id", r.CustomerID),
		slog.String("from", from.String()),
		slog.String("to", r.Status.String()),
	}
	if r.DriverID != "" {
		attrs = append(attrs, slog.String("driver_id", r.DriverID))
	}
	if r.Status == entities.StatusArrived {
		attrs = append(attrs, slog.Float64("price", r.Price))
	}
	s.logger.Info("reservation status changed", attrs...)
}
