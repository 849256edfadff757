package customers

import "time"

// Customer is a dealership customer. Quotations embed a copy of the customer
// at assembly time, never a live reference.
type Customer struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	Address        string    `json:"address"`
	Locality       string    `json:"locality"`
	PrimaryPhone   string    `json:"primary_phone"`
	SecondaryPhone string    `json:"secondary_phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Input carries the fields needed to register a customer.
type Input struct {
	FullName       string
	Address        string
	Locality       string
	PrimaryPhone   string
	SecondaryPhone string
}
