package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridereservation/internal/api/middleware"
	"ridereservation/internal/services"
)

// CustomerHandler groups the customer-facing endpoints: registration,
// creating reservations and reading them back.
type CustomerHandler struct {
	registrationService *services.RegistrationService
	reservationService  *services.ReservationService
	queryService        *services.QueryService
}

func NewCustomerHandler(
	registrationService *services.RegistrationService,
	reservationService *services.ReservationService,
	queryService *services.QueryService,
) *CustomerHandler {
	return &CustomerHandler{
		registrationService: registrationService,
		reservationService:  reservationService,
		queryService:        queryService,
	}
}

// RegisterRequest is the body shared by POST /customers and POST /drivers.
// Name is free text; only the phone number is validated.
type RegisterRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Register handles POST /customers
func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.registrationService.RegisterCustomer(c.Request.Context(), req.Name, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": customer.ID})
}

type CreateReservationRequest struct {
	PickupLocation string `json:"pickup_location" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
}

// CreateReservation handles POST /customer/reservations
func (h *CustomerHandler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID := middleware.GetUserID(c)

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), customerID, req.PickupLocation, req.Destination)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     fmt.Sprintf("Transaction with ID %s was created successfully", reservation.ID),
		"reservation": reservation,
	})
}

// ListReservations handles GET /customer/reservations
func (h *CustomerHandler) ListReservations(c *gin.Context) {
	reservations, err := h.queryService.ListReservationsForCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// GetReservation handles GET /customer/reservations/:id
func (h *CustomerHandler) GetReservation(c *gin.Context) {
	reservation, err := h.queryService.GetReservationForCustomer(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles PATCH /customer/reservations/:id/cancel
func (h *CustomerHandler) CancelReservation(c *gin.Context) {
	reservation, err := h.reservationService.CustomerCancel(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     transitionMessage(reservation),
		"reservation": reservation,
	})
}
