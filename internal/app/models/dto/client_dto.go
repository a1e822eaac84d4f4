package dto

// CreateClientRequest represents a client creation form
type CreateClientRequest struct {
	BusinessName string  `json:"businessName" binding:"required" example:"ACME Formazione Srl"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// UpdateClientRequest represents a client update form
type UpdateClientRequest struct {
	BusinessName string  `json:"businessName" binding:"required"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID           int64   `json:"id" example:"1"`
	BusinessName string  `json:"businessName" example:"ACME Formazione Srl"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}
