package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r!Secret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r!Secret", hash)

	assert.True(t, CheckPassword(hash, "Sup3r!Secret"))
	assert.False(t, CheckPassword(hash, "sup3r!secret"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestValidatePasswordPolicy(t *testing.T) {
	t.Run("accepts strong passwords", func(t *testing.T) {
		for _, pw := range []string{"Sup3r!Secret", "Admin123!ChangeMe", "xY9#min8", "Paaa1!word"} {
			assert.NoError(t, ValidatePasswordPolicy(pw), "password %q", pw)
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		cases := []struct {
			name string
			pw   string
		}{
			{"too short", "aB1!x"},
			{"too long", "aB1!" + strings.Repeat("x", 130)},
			{"whitespace", "aB1! pass"},
			{"no lowercase", "PASSWORD1!"},
			{"no uppercase", "password1!"},
			{"no digit", "Password!!"},
			{"no special", "Password11"},
			{"common base word", "Qwerty123"},
			{"repeated run", "Paaaa1!word"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.ErrorIs(t, ValidatePasswordPolicy(tc.pw), apperrors.ErrInvalidPassword)
			})
		}
	})
}

func TestHasRepeatedRun(t *testing.T) {
	assert.False(t, hasRepeatedRun(""))
	assert.False(t, hasRepeatedRun("abc"))
	assert.False(t, hasRepeatedRun("aaabaaab"))
	assert.True(t, hasRepeatedRun("aaaa"))
	assert.True(t, hasRepeatedRun("xaaaax"))
	assert.True(t, hasRepeatedRun("x!!!!x"))
	assert.True(t, hasRepeatedRun("èèèè"))
}
