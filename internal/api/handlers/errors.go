package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridereservation/internal/api/middleware"
	"ridereservation/internal/domain/entities"
	"ridereservation/internal/services"
)

// respondError maps a service error to an HTTP status. Expected failures
// keep their message; anything else is logged and reported as a 500.
//
// Go Learning Note — errors.Is and errors.As:
// errors.Is walks the wrap chain looking for a sentinel value, so a
// *StatusError still matches ErrInvalidStatusForTransition through its
// Unwrap method. errors.As walks the same chain looking for a type and
// fills in the target, which is how the current status is pulled out for
// the response body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrReservationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidPhoneNumber),
		errors.Is(err, services.ErrInvalidPrice):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrDriverMismatch),
		errors.Is(err, services.ErrCustomerMismatch):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrDriverAlreadyBusy),
		errors.Is(err, services.ErrInvalidStatusForTransition):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		middleware.GetLogger(c).Error("request failed", slog.Any("error", err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var statusErr *services.StatusError
	if errors.As(err, &statusErr) {
		body["status"] = statusErr.Current
	}
	c.JSON(status, body)
}

func transitionMessage(r *entities.Reservation) string {
	switch r.Status {
	case entities.StatusAccepted:
		return fmt.Sprintf("Reservation %s was accepted by driver %s", r.ID, r.DriverID)
	case entities.StatusOnTheWay:
		return fmt.Sprintf("Driver %s is on the way for reservation %s", r.DriverID, r.ID)
	case entities.StatusArrived:
		return fmt.Sprintf("Reservation %s arrived, price %.2f", r.ID, r.Price)
	default:
		return fmt.Sprintf("Reservation %s is %s", r.ID, r.Status)
	}
}
