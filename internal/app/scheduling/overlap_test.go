package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour int) time.Time {
	return time.Date(2026, 1, 5, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	t.Run("back-to-back intervals do not overlap", func(t *testing.T) {
		assert.False(t, Overlaps(at(9), at(11), at(11), at(13)))
		assert.False(t, Overlaps(at(11), at(13), at(9), at(11)))
	})

	t.Run("partial overlap", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(11), at(10), at(12)))
	})

	t.Run("containment", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(17), at(10), at(12)))
		assert.True(t, Overlaps(at(10), at(12), at(9), at(17)))
	})

	t.Run("identical intervals", func(t *testing.T) {
		assert.True(t, Overlaps(at(9), at(11), at(9), at(11)))
	})

	t.Run("disjoint intervals", func(t *testing.T) {
		assert.False(t, Overlaps(at(9), at(10), at(14), at(16)))
	})

	t.Run("symmetry", func(t *testing.T) {
		cases := [][4]time.Time{
			{at(9), at(11), at(10), at(12)},
			{at(9), at(11), at(11), at(13)},
			{at(9), at(17), at(12), at(13)},
		}
		for _, c := range cases {
			assert.Equal(t,
				Overlaps(c[0], c[1], c[2], c[3]),
				Overlaps(c[2], c[3], c[0], c[1]))
		}
	})
}
