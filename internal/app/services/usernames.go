package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

var accentReplacer = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// NormalizeNamePart lowers a name, strips accents and drops everything that
// is not a plain letter, so "D'Alò" becomes "dalo".
func NormalizeNamePart(s string) string {
	s = accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildUsername joins normalized name parts with a numeric suffix in the
// "nome.cognome1234" shape.
func BuildUsername(firstName, lastName string, suffix int) string {
	first := NormalizeNamePart(firstName)
	last := NormalizeNamePart(lastName)
	switch {
	case first == "" && last == "":
		first = "utente"
	case first == "":
		first = last
		last = ""
	}
	if last == "" {
		return fmt.Sprintf("%s%04d", first, suffix)
	}
	return fmt.Sprintf("%s.%s%04d", first, last, suffix)
}

const usernameAttempts = 20

// generateUniqueUsername draws random 4-digit suffixes until the username is
// free.
func generateUniqueUsername(ctx context.Context, firstName, lastName string, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < usernameAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", fmt.Errorf("failed to generate username suffix: %w", err)
		}
		candidate := BuildUsername(firstName, lastName, int(n.Int64()))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free username for %s %s", firstName, lastName)
}
