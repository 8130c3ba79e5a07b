package entities

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// ReservationStatus is the lifecycle state of a reservation. The numeric value
// is the stored encoding; String() gives the display label.
//
// The lifecycle is:
//
//	Waiting → Accepted → OnTheWay → Arrived
//	   ↘ Cancelled
type ReservationStatus int8

const (
	StatusWaiting ReservationStatus = iota
	StatusAccepted
	StatusOnTheWay
	StatusArrived
	StatusCancelled
)

var statusLabels = [...]string{
	StatusWaiting:   "Waiting",
	StatusAccepted:  "Accepted",
	StatusOnTheWay:  "On the Way",
	StatusArrived:   "Arrived",
	StatusCancelled: "Cancelled",
}

var ErrUnknownStatus = errors.New("unknown reservation status")

// validTransitions is the state machine. Terminal states (Arrived, Cancelled)
// have empty slices.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusWaiting:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusOnTheWay},
	StatusOnTheWay:  {StatusArrived},
	StatusArrived:   {},
	StatusCancelled: {},
}

func (s ReservationStatus) Valid() bool {
	return s >= StatusWaiting && s <= StatusCancelled
}

func (s ReservationStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ReservationStatus(%d)", int8(s))
	}
	return statusLabels[s]
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether a driver holding a reservation in s is busy.
func (s ReservationStatus) IsActive() bool {
	return s == StatusAccepted || s == StatusOnTheWay
}

// ParseReservationStatus is the inverse of String.
func ParseReservationStatus(label string) (ReservationStatus, error) {
	for i, l := range statusLabels {
		if l == label {
			return ReservationStatus(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, label)
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int8(s))
	}
	return json.Marshal(s.String())
}

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseReservationStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDriverRequired    = errors.New("driver id is required")
	ErrInvalidPrice      = errors.New("price must be a finite, non-negative number")
)

// Reservation links a customer to a pickup and destination and moves through
// the status lifecycle. DriverID is empty until a driver takes the
// reservation, and Price stays zero until the driver arrives.
type Reservation struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customer_id"`
	PickupLocation string            `json:"pickup_location"`
	Destination    string            `json:"destination"`
	Status         ReservationStatus `json:"status"`
	Price          float64           `json:"price"`
	DriverID       string            `json:"driver_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewReservation creates a Reservation in the Waiting state with no driver.
func NewReservation(id, customerID, pickupLocation, destination string) *Reservation {
	return &Reservation{
		ID:             id,
		CustomerID:     customerID,
		PickupLocation: pickupLocation,
		Destination:    destination,
		Status:         StatusWaiting,
		CreatedAt:      time.Now(),
	}
}

func (r *Reservation) CanTransitionTo(newStatus ReservationStatus) bool {
	for _, s := range validTransitions[r.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the reservation to newStatus, or returns an error
// wrapping ErrInvalidTransition if the state machine has no such edge.
func (r *Reservation) TransitionTo(newStatus ReservationStatus) error {
	if !r.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, r.Status, newStatus)
	}
	r.Status = newStatus
	return nil
}

// HeldBy reports whether driverID holds the reservation while it is active.
func (r *Reservation) HeldBy(driverID string) bool {
	return r.DriverID == driverID && r.Status.IsActive()
}

// Accept records the driver and moves to Accepted. The driver is only
// recorded if the transition is legal.
func (r *Reservation) Accept(driverID string) error {
	if driverID == "" {
		return ErrDriverRequired
	}
	if err := r.TransitionTo(StatusAccepted); err != nil {
		return err
	}
	r.DriverID = driverID
	return nil
}

func (r *Reservation) StartTrip() error {
	return r.TransitionTo(StatusOnTheWay)
}

// Arrive moves to Arrived and records the final price.
func (r *Reservation) Arrive(price float64) error {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	if err := r.TransitionTo(StatusArrived); err != nil {
		return err
	}
	r.Price = price
	return nil
}

func (r *Reservation) Cancel() error {
	return r.TransitionTo(StatusCancelled)
}
