package models

import (
	"strings"
	"time"
)

// Instructor defines a trainer profile ("docente") based on the 'instructors'
// table. Deleting an instructor cascades its event assignments and linked
// user account.
type Instructor struct {
	ID         int64      `json:"id" db:"id"`
	FirstName  string     `json:"firstName" db:"first_name"`
	LastName   string     `json:"lastName" db:"last_name"`
	Email      *string    `json:"email,omitempty" db:"email"`
	BirthDate  *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	BirthPlace *string    `json:"birthPlace,omitempty" db:"birth_place"`

	ResidenceStreet   *string `json:"residenceStreet,omitempty" db:"res_street"`
	ResidenceNumber   *string `json:"residenceNumber,omitempty" db:"res_number"`
	ResidenceCity     *string `json:"residenceCity,omitempty" db:"res_city"`
	ResidencePostcode *string `json:"residencePostcode,omitempty" db:"res_postcode"`
	ResidenceProvince *string `json:"residenceProvince,omitempty" db:"res_province"`
	ResidenceCountry  *string `json:"residenceCountry,omitempty" db:"res_country"`

	Gender     *string     `json:"gender,omitempty" db:"gender"`
	FiscalCode *string     `json:"fiscalCode,omitempty" db:"fiscal_code"`
	VATNumber  *string     `json:"vatNumber,omitempty" db:"vat_number"`
	VATRegime  *string     `json:"vatRegime,omitempty" db:"vat_regime"`
	Subject    SubjectType `json:"subjectType" db:"subject_type"`

	BusinessName *string `json:"businessName,omitempty" db:"business_name"`
	Bank         *string `json:"bank,omitempty" db:"bank"`
	BankHolder   *string `json:"bankHolder,omitempty" db:"bank_holder"`
	IBAN         *string `json:"iban,omitempty" db:"iban"`
	BICSwift     *string `json:"bicSwift,omitempty" db:"bic_swift"`

	CVFilename   *string    `json:"cvFilename,omitempty" db:"cv_filename"`
	CVUploadedAt *time.Time `json:"cvUploadedAt,omitempty" db:"cv_uploaded_at"`

	User *User `json:"user,omitempty"` // Relation, no db tag
}

// DisplayName returns "FirstName LastName" with surrounding whitespace trimmed.
func (i *Instructor) DisplayName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}
