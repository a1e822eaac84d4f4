package dto

import "time"

// CreateInviteRequest represents an invite creation form
type CreateInviteRequest struct {
	ExpiresInDays *int `json:"expiresInDays,omitempty" binding:"omitempty,min=1,max=365" example:"14"`
}

// InviteResponse represents an invite in API responses
type InviteResponse struct {
	ID           int64      `json:"id"`
	Token        string     `json:"token"`
	Code         string     `json:"code"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	UsedByUserID *int64     `json:"usedByUserId,omitempty"`
}

// InviteCheckResponse reports whether an invite token can still be redeemed
type InviteCheckResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty" example:"invite expired"`
}

// RegisterViaInviteRequest is the public self-registration form. It is
// posted as multipart form data together with the mandatory CV PDF.
type RegisterViaInviteRequest struct {
	Code     string `form:"code" binding:"required" example:"A7K2M9PQ4X"`
	Password string `form:"password" binding:"required,min=8"`

	FirstName  string `form:"firstName" binding:"required"`
	LastName   string `form:"lastName" binding:"required"`
	Email      string `form:"email" binding:"required,email"`
	BirthDate  string `form:"birthDate" binding:"omitempty,datetime=2006-01-02" example:"1985-06-14"`
	BirthPlace string `form:"birthPlace" binding:"omitempty"`

	ResidenceStreet   string `form:"residenceStreet" binding:"required"`
	ResidenceNumber   string `form:"residenceNumber" binding:"required"`
	ResidenceCity     string `form:"residenceCity" binding:"required"`
	ResidencePostcode string `form:"residencePostcode" binding:"required,cap" example:"20121"`
	ResidenceProvince string `form:"residenceProvince" binding:"required,province" example:"MI"`
	ResidenceCountry  string `form:"residenceCountry" binding:"omitempty"`

	Gender     string `form:"gender" binding:"omitempty,oneof=M F Altro"`
	FiscalCode string `form:"fiscalCode" binding:"required"`
	VATNumber  string `form:"vatNumber" binding:"omitempty,partita_iva" example:"12345678903"`
	VATRegime  string `form:"vatRegime" binding:"required"`
	Subject    string `form:"subjectType" binding:"required,oneof='Libero Professionista' 'Azienda'" example:"Azienda"`

	BusinessName string `form:"businessName" binding:"omitempty"`
	Bank         string `form:"bank" binding:"omitempty"`
	BankHolder   string `form:"bankHolder" binding:"omitempty"`
	IBAN         string `form:"iban" binding:"omitempty"`
	BICSwift     string `form:"bicSwift" binding:"omitempty"`
}

// RegisterViaInviteResponse confirms a completed self-registration
type RegisterViaInviteResponse struct {
	Username string `json:"username" example:"mario.rossi1042"`
	Status   string `json:"status" example:"pending"`
	Message  string `json:"message"`
}
