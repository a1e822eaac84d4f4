package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNamePart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mario", "mario"},
		{"  Rossi  ", "rossi"},
		{"D'Alò", "dalo"},
		{"Müller", "muller"},
		{"José-María", "josemaria"},
		{"O'Brien Jr.", "obrienjr"},
		{"12345", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeNamePart(tc.in), "input %q", tc.in)
	}
}

func TestBuildUsername(t *testing.T) {
	assert.Equal(t, "mario.rossi0042", BuildUsername("Mario", "Rossi", 42))
	assert.Equal(t, "mario.rossi0000", BuildUsername("Mario", "Rossi", 0))

	t.Run("missing last name", func(t *testing.T) {
		assert.Equal(t, "mario0007", BuildUsername("Mario", "", 7))
	})

	t.Run("missing first name uses last", func(t *testing.T) {
		assert.Equal(t, "rossi0007", BuildUsername("", "Rossi", 7))
	})

	t.Run("no usable name parts", func(t *testing.T) {
		assert.Equal(t, "utente0007", BuildUsername("...", "123", 7))
	})
}

func TestGenerateUniqueUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first free candidate", func(t *testing.T) {
		var checked []string
		username, err := generateUniqueUsername(ctx, "Mario", "Rossi", func(_ context.Context, candidate string) (bool, error) {
			checked = append(checked, candidate)
			return false, nil
		})
		require.NoError(t, err)
		assert.Len(t, checked, 1)
		assert.True(t, strings.HasPrefix(username, "mario.rossi"))
		assert.Len(t, username, len("mario.rossi")+4)
	})

	t.Run("skips taken candidates", func(t *testing.T) {
		calls := 0
		username, err := generateUniqueUsername(ctx, "Mario", "Rossi", func(_ context.Context, _ string) (bool, error) {
			calls++
			return calls < 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.NotEmpty(t, username)
	})

	t.Run("gives up when everything is taken", func(t *testing.T) {
		_, err := generateUniqueUsername(ctx, "Mario", "Rossi", func(_ context.Context, _ string) (bool, error) {
			return true, nil
		})
		assert.Error(t, err)
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := generateUniqueUsername(ctx, "Mario", "Rossi", func(_ context.Context, _ string) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
