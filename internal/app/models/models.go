package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin      RoleType = "ADMIN"
	RoleInstructor RoleType = "INSTRUCTOR"
)

// AccountStatus defines the lifecycle state of a user account
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountPending  AccountStatus = "pending"
	AccountDisabled AccountStatus = "disabled"
)

// IsValid reports whether s is a known account status.
func (s AccountStatus) IsValid() bool {
	return s == AccountActive || s == AccountPending || s == AccountDisabled
}

// EventStatus defines the two lifecycle states of a calendar event.
// The Italian labels are kept as stored values for compatibility with
// existing data exports.
type EventStatus string

const (
	EventOptioned  EventStatus = "Opzionato"
	EventConfirmed EventStatus = "Confermato"
)

// IsValid reports whether s is a known event status.
func (s EventStatus) IsValid() bool {
	return s == EventOptioned || s == EventConfirmed
}

// SubjectType classifies how an instructor invoices.
type SubjectType string

const (
	SubjectFreelancer SubjectType = "Libero Professionista"
	SubjectCompany    SubjectType = "Azienda"
)

// VATRegimes lists the accepted "regime IVA" choices for instructor
// registration. VAT number is mandatory for every regime except flat
// withholding ("R.A. secca").
var VATRegimes = []string{
	"Partita Iva in Regime dei minimi / agevolato / forfettario",
	"R.A. secca",
	"P.I. senza R.A. (es: ditta individuale, srl, spa...)",
	"P.I. in ritenuta d'acconto (consulenti)",
}

// VATRegimeRequiresNumber reports whether the given regime requires a VAT number.
func VATRegimeRequiresNumber(regime string) bool {
	return regime != "R.A. secca"
}

// IsKnownVATRegime reports whether regime is one of the accepted choices.
func IsKnownVATRegime(regime string) bool {
	for _, r := range VATRegimes {
		if r == regime {
			return true
		}
	}
	return false
}
