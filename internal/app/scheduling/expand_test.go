package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func TestExpandRange(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// 2026-01-05 is a Monday, 2026-01-11 a Sunday
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, rome)
	sunday := time.Date(2026, 1, 11, 0, 0, 0, 0, rome)
	nine := ClockTime{Hour: 9}
	one := ClockTime{Hour: 13}

	t.Run("excludes weekends", func(t *testing.T) {
		windows, err := ExpandRange(monday, sunday, nine, one, true)
		require.NoError(t, err)
		require.Len(t, windows, 5)

		for i, w := range windows {
			want := monday.AddDate(0, 0, i)
			assert.Equal(t, time.Date(want.Year(), want.Month(), want.Day(), 9, 0, 0, 0, rome), w.StartAt)
			assert.Equal(t, time.Date(want.Year(), want.Month(), want.Day(), 13, 0, 0, 0, rome), w.EndAt)
			assert.NotEqual(t, time.Saturday, w.StartAt.Weekday())
			assert.NotEqual(t, time.Sunday, w.StartAt.Weekday())
		}
	})

	t.Run("includes weekends", func(t *testing.T) {
		windows, err := ExpandRange(monday, sunday, nine, one, false)
		require.NoError(t, err)
		assert.Len(t, windows, 7)
	})

	t.Run("single day", func(t *testing.T) {
		windows, err := ExpandRange(monday, monday, nine, one, true)
		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.Equal(t, rome, windows[0].StartAt.Location())
	})

	t.Run("weekend-only range yields no windows", func(t *testing.T) {
		saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, rome)
		windows, err := ExpandRange(saturday, sunday, nine, one, true)
		require.NoError(t, err)
		assert.Empty(t, windows)
	})

	t.Run("end date before start date", func(t *testing.T) {
		_, err := ExpandRange(sunday, monday, nine, one, false)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("inverted times", func(t *testing.T) {
		_, err := ExpandRange(monday, sunday, one, nine, false)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}
