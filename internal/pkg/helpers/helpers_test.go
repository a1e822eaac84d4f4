package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("nonsense", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), d)

	for _, s := range []string{"", "05/01/2026", "2026-13-01", "2026-01-05T09:00"} {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "input %q", s)
	}
}

func TestParseDateTimeLocal(t *testing.T) {
	d, err := ParseDateTimeLocal("2026-01-05T09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC), d)

	d, err = ParseDateTimeLocal("2026-01-05T09:30:15")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Second())

	_, err = ParseDateTimeLocal("2026-01-05 09:30")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestStringPtrOrNil(t *testing.T) {
	assert.Nil(t, StringPtrOrNil(""))

	p := StringPtrOrNil("x")
	require.NotNil(t, p)
	assert.Equal(t, "x", *p)
}

func TestGetNullString(t *testing.T) {
	assert.False(t, GetNullString(nil).Valid)

	s := "value"
	ns := GetNullString(&s)
	assert.True(t, ns.Valid)
	assert.Equal(t, "value", ns.String)
}

func TestInt64SliceToSet(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, Int64SliceToSet([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, Int64SliceToSet(nil))
}
