package entities

import "time"

// Driver has the same shape as Customer but lives in its own identifier
// namespace and store. Drivers carry no availability flag: whether a driver is
// busy is derived from the reservations it holds.
type Driver struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewDriver(id, name, phoneNumber string) *Driver {
	return &Driver{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now(),
	}
}
