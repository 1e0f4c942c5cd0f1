package entity

import "time"

// Customer representa un cliente. Email y Phone son opcionales.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
