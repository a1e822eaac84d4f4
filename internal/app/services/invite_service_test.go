package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := generateInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, inviteCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(inviteCodeAlphabet, ch), "unexpected character %q in %q", ch, code)
		}
		seen[code] = struct{}{}
	}
	// With a 31-character alphabet and length 10, collisions in 50 draws
	// would indicate a broken generator
	assert.Len(t, seen, 50)
}

func TestInviteCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, ch := range "0O1IL" {
		assert.NotContains(t, inviteCodeAlphabet, string(ch))
	}
}
