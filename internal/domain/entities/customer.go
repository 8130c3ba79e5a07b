// Package entities defines the core domain models for the reservation system.
// These structs represent the business concepts (Customer, Driver,
// Reservation) and live in the innermost layer of the architecture: they have
// no dependencies on storage, HTTP, or external services.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import "time"

type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCustomer(id, name, phoneNumber string) *Customer {
	return &Customer{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now(),
	}
}
