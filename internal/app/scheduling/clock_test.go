package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func TestParseClockTime(t *testing.T) {
	t.Run("hours and minutes", func(t *testing.T) {
		ct, err := ParseClockTime("09:30")
		require.NoError(t, err)
		assert.Equal(t, ClockTime{Hour: 9, Minute: 30}, ct)
	})

	t.Run("seconds dropped", func(t *testing.T) {
		ct, err := ParseClockTime("14:05:59")
		require.NoError(t, err)
		assert.Equal(t, ClockTime{Hour: 14, Minute: 5}, ct)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, s := range []string{"", "25:00", "9h30", "09.30", "noon"} {
			_, err := ParseClockTime(s)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "input %q", s)
		}
	})
}

func TestClockTimeOn(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	day := time.Date(2026, 3, 15, 23, 59, 0, 0, rome)
	got := ClockTime{Hour: 8, Minute: 45}.On(day)

	assert.Equal(t, time.Date(2026, 3, 15, 8, 45, 0, 0, rome), got)
	assert.Equal(t, rome, got.Location())
}

func TestClockTimeBefore(t *testing.T) {
	assert.True(t, ClockTime{Hour: 9}.Before(ClockTime{Hour: 10}))
	assert.True(t, ClockTime{Hour: 9, Minute: 15}.Before(ClockTime{Hour: 9, Minute: 30}))
	assert.False(t, ClockTime{Hour: 9, Minute: 30}.Before(ClockTime{Hour: 9, Minute: 30}))
	assert.False(t, ClockTime{Hour: 10}.Before(ClockTime{Hour: 9, Minute: 59}))
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "08:05", ClockTime{Hour: 8, Minute: 5}.String())
	assert.Equal(t, "00:00", ClockTime{}.String())
}
