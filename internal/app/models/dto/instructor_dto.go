package dto

import "time"

// InstructorProfileFields is the shared body of instructor create and
// update forms.
type InstructorProfileFields struct {
	FirstName  string  `json:"firstName" binding:"required"`
	LastName   string  `json:"lastName" binding:"required"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	BirthDate  *string `json:"birthDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	BirthPlace *string `json:"birthPlace,omitempty"`

	ResidenceStreet   *string `json:"residenceStreet,omitempty"`
	ResidenceNumber   *string `json:"residenceNumber,omitempty"`
	ResidenceCity     *string `json:"residenceCity,omitempty"`
	ResidencePostcode *string `json:"residencePostcode,omitempty" binding:"omitempty,cap"`
	ResidenceProvince *string `json:"residenceProvince,omitempty" binding:"omitempty,province"`
	ResidenceCountry  *string `json:"residenceCountry,omitempty"`

	Gender     *string `json:"gender,omitempty" binding:"omitempty,oneof=M F Altro"`
	FiscalCode *string `json:"fiscalCode,omitempty"`
	VATNumber  *string `json:"vatNumber,omitempty" binding:"omitempty,partita_iva"`
	VATRegime  *string `json:"vatRegime,omitempty"`
	Subject    string  `json:"subjectType" binding:"omitempty,oneof='Libero Professionista' 'Azienda'"`

	BusinessName *string `json:"businessName,omitempty"`
	Bank         *string `json:"bank,omitempty"`
	BankHolder   *string `json:"bankHolder,omitempty"`
	IBAN         *string `json:"iban,omitempty"`
	BICSwift     *string `json:"bicSwift,omitempty"`
}

// CreateInstructorRequest represents an admin-side instructor creation form
type CreateInstructorRequest struct {
	InstructorProfileFields
}

// UpdateInstructorRequest represents an admin-side instructor update form
type UpdateInstructorRequest struct {
	InstructorProfileFields
}

// InstructorResponse represents an instructor profile in API responses
type InstructorResponse struct {
	ID          int64   `json:"id" example:"7"`
	FirstName   string  `json:"firstName" example:"Mario"`
	LastName    string  `json:"lastName" example:"Rossi"`
	DisplayName string  `json:"displayName" example:"Mario Rossi"`
	Email       *string `json:"email,omitempty"`
	BirthDate   *string `json:"birthDate,omitempty"`
	BirthPlace  *string `json:"birthPlace,omitempty"`

	ResidenceStreet   *string `json:"residenceStreet,omitempty"`
	ResidenceNumber   *string `json:"residenceNumber,omitempty"`
	ResidenceCity     *string `json:"residenceCity,omitempty"`
	ResidencePostcode *string `json:"residencePostcode,omitempty"`
	ResidenceProvince *string `json:"residenceProvince,omitempty"`
	ResidenceCountry  *string `json:"residenceCountry,omitempty"`

	Gender     *string `json:"gender,omitempty"`
	FiscalCode *string `json:"fiscalCode,omitempty"`
	VATNumber  *string `json:"vatNumber,omitempty"`
	VATRegime  *string `json:"vatRegime,omitempty"`
	Subject    string  `json:"subjectType"`

	BusinessName *string `json:"businessName,omitempty"`
	Bank         *string `json:"bank,omitempty"`
	BankHolder   *string `json:"bankHolder,omitempty"`
	IBAN         *string `json:"iban,omitempty"`
	BICSwift     *string `json:"bicSwift,omitempty"`

	HasCV        bool       `json:"hasCv"`
	CVUploadedAt *time.Time `json:"cvUploadedAt,omitempty"`

	User *UserResponse `json:"user,omitempty"`
}

// SetUserStatusRequest changes the login status of an instructor's account
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active pending disabled" example:"active"`
}

// AdminResetPasswordRequest sets a new password on an instructor's account
type AdminResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
