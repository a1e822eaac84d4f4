package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashing
const BcryptCost = 12

// HashPassword hashes a raw password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a raw password against a bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// commonPasswords are rejected outright regardless of composition.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "qwerty": {},
	"qwerty123": {}, "12345678": {}, "123456789": {}, "admin": {},
	"admin123": {}, "welcome": {}, "welcome123": {}, "letmein": {},
	"changeme": {}, "abcdefg": {}, "abcdefg1": {}, "iloveyou": {},
	"ciao123": {}, "test1234": {},
}

// hasRepeatedRun reports whether s contains four or more identical
// consecutive characters.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 4 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// ValidatePasswordPolicy checks a candidate password against the account
// policy: 8-128 chars, no whitespace, at least one lowercase, uppercase,
// digit and special character, not a common password, no run of four
// identical characters.
func ValidatePasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", apperrors.ErrInvalidPassword)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: must be at most 128 characters", apperrors.ErrInvalidPassword)
	}

	var lower, upper, digit, special bool
	for _, ch := range password {
		switch {
		case unicode.IsSpace(ch):
			return fmt.Errorf("%w: must not contain whitespace", apperrors.ErrInvalidPassword)
		case ch >= 'a' && ch <= 'z':
			lower = true
		case ch >= 'A' && ch <= 'Z':
			upper = true
		case unicode.IsDigit(ch):
			digit = true
		case !unicode.IsLetter(ch) && !unicode.IsDigit(ch):
			special = true
		}
	}

	if !lower {
		return fmt.Errorf("%w: must contain a lowercase letter", apperrors.ErrInvalidPassword)
	}
	if !upper {
		return fmt.Errorf("%w: must contain an uppercase letter", apperrors.ErrInvalidPassword)
	}
	if !digit {
		return fmt.Errorf("%w: must contain a digit", apperrors.ErrInvalidPassword)
	}
	if !special {
		return fmt.Errorf("%w: must contain a special character", apperrors.ErrInvalidPassword)
	}

	if _, found := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; found {
		return fmt.Errorf("%w: too common, choose a stronger one", apperrors.ErrInvalidPassword)
	}

	if hasRepeatedRun(password) {
		return fmt.Errorf("%w: avoid four or more identical characters in a row", apperrors.ErrInvalidPassword)
	}

	return nil
}
