package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationPatterns(t *testing.T) {
	t.Run("cap", func(t *testing.T) {
		assert.True(t, capPattern.MatchString("00185"))
		assert.True(t, capPattern.MatchString("20121"))
		assert.False(t, capPattern.MatchString("2012"))
		assert.False(t, capPattern.MatchString("201211"))
		assert.False(t, capPattern.MatchString("2O121"))
	})

	t.Run("province", func(t *testing.T) {
		assert.True(t, provincePattern.MatchString("MI"))
		assert.True(t, provincePattern.MatchString("RM"))
		assert.False(t, provincePattern.MatchString("mi"))
		assert.False(t, provincePattern.MatchString("MIL"))
		assert.False(t, provincePattern.MatchString("M1"))
	})

	t.Run("partita iva", func(t *testing.T) {
		assert.True(t, vatPattern.MatchString("12345678901"))
		assert.False(t, vatPattern.MatchString("1234567890"))
		assert.False(t, vatPattern.MatchString("123456789012"))
		assert.False(t, vatPattern.MatchString("IT345678901"))
	})
}
