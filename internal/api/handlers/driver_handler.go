package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridereservation/internal/api/middleware"
	"ridereservation/internal/domain/entities"
	"ridereservation/internal/services"
)

// DriverHandler groups all driver-facing HTTP endpoints. Drivers browse the
// waiting queue, take a reservation and then move it through the trip.
type DriverHandler struct {
	registrationService *services.RegistrationService
	reservationService  *services.ReservationService
	queryService        *services.QueryService
}

// NewDriverHandler creates a DriverHandler with its required service dependencies.
func NewDriverHandler(
	registrationService *services.RegistrationService,
	reservationService *services.ReservationService,
	queryService *services.QueryService,
) *DriverHandler {
	return &DriverHandler{
		registrationService: registrationService,
		reservationService:  reservationService,
		queryService:        queryService,
	}
}

// Register handles POST /drivers
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := h.registrationService.RegisterDriver(c.Request.Context(), req.Name, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": driver.ID})
}

// ListReservations handles GET /driver/reservations and returns every
// reservation the caller has been assigned, in creation order.
func (h *DriverHandler) ListReservations(c *gin.Context) {
	reservations, err := h.queryService.ListReservationsForDriver(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ListWaiting handles GET /driver/reservations/waiting
func (h *DriverHandler) ListWaiting(c *gin.Context) {
	reservations, err := h.queryService.ListWaitingReservations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// Take handles PATCH /driver/reservations/:id/take
func (h *DriverHandler) Take(c *gin.Context) {
	h.transition(c, h.reservationService.DriverTakeReservation)
}

// OnTheWay handles PATCH /driver/reservations/:id/on-the-way
func (h *DriverHandler) OnTheWay(c *gin.Context) {
	h.transition(c, h.reservationService.DriverOnTheWay)
}

// ArrivedRequest carries the fare. Price is a pointer so that an explicit
// 0 passes `binding:"required"` while an omitted field does not.
type ArrivedRequest struct {
	Price *float64 `json:"price" binding:"required"`
}

// Arrived handles PATCH /driver/reservations/:id/arrived
func (h *DriverHandler) Arrived(c *gin.Context) {
	var req ArrivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.reservationService.DriverArrived(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), *req.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     transitionMessage(reservation),
		"reservation": reservation,
	})
}

// Cancel handles PATCH /driver/reservations/:id/cancel
func (h *DriverHandler) Cancel(c *gin.Context) {
	h.transition(c, h.reservationService.DriverCancel)
}

type transitionFunc func(ctx context.Context, driverID, reservationID string) (*entities.Reservation, error)

func (h *DriverHandler) transition(c *gin.Context, fn transitionFunc) {
	reservation, err := fn(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     transitionMessage(reservation),
		"reservation": reservation,
	})
}
