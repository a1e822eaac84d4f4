package models

// Client defines a customer ("cliente") that engagements are contracted under,
// based on the 'clients' table
type Client struct {
	ID           int64   `json:"id" db:"id"`
	BusinessName string  `json:"businessName" db:"business_name"` // Ragione sociale
	Email        *string `json:"email,omitempty" db:"email"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	Notes        *string `json:"notes,omitempty" db:"notes"`
}
