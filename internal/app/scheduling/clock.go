package scheduling

import (
	"fmt"
	"time"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// ClockTime is a wall-clock time of day without a date, used for ranged
// creation and time-only bulk resets.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS" (seconds dropped).
func ParseClockTime(s string) (ClockTime, error) {
	if s == "" {
		return ClockTime{}, fmt.Errorf("%w: missing time", apperrors.ErrValidationFailed)
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("%w: invalid time format (expected HH:MM)", apperrors.ErrValidationFailed)
}

// On combines the clock time with the date part of day, keeping day's location.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// Before reports whether c is strictly earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// String renders the canonical "HH:MM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
