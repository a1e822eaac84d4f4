package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/trainingops/trainingops/internal/pkg/logger"
)

var (
	capPattern      = regexp.MustCompile(`^\d{5}$`)
	provincePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	vatPattern      = regexp.MustCompile(`^\d{11}$`)
)

// RegisterCustomValidators installs domain validation tags on gin's binding
// engine. Tags: "cap" (Italian postcode, 5 digits), "province" (2 uppercase
// letters), "partita_iva" (VAT number, 11 digits).
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Warn().Msg("Binding validator engine unavailable, custom validators not registered")
		return
	}

	_ = v.RegisterValidation("cap", func(fl validator.FieldLevel) bool {
		return capPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("province", func(fl validator.FieldLevel) bool {
		return provincePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("partita_iva", func(fl validator.FieldLevel) bool {
		return vatPattern.MatchString(fl.Field().String())
	})
}

// FormatValidationError creates a human-readable validation error message
func FormatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "datetime":
		return e.Field() + " must match the format " + e.Param()
	case "timezone":
		return e.Field() + " must be a valid IANA timezone"
	case "cap":
		return e.Field() + " must be a 5-digit postcode"
	case "province":
		return e.Field() + " must be a 2-letter province code"
	case "partita_iva":
		return e.Field() + " must be an 11-digit VAT number"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
