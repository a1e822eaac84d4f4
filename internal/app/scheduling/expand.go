package scheduling

import (
	"fmt"
	"time"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// Window is one concrete [StartAt, EndAt) interval produced by range expansion.
type Window struct {
	StartAt time.Time
	EndAt   time.Time
}

// ExpandRange generates one window per calendar day from startDate through
// endDate inclusive, each carrying the same time-of-day slot. Saturdays and
// Sundays are skipped when excludeWeekends is set. Only the date part of
// startDate/endDate is considered.
func ExpandRange(startDate, endDate time.Time, startTime, endTime ClockTime, excludeWeekends bool) ([]Window, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date must be on or after start date", apperrors.ErrValidationFailed)
	}
	if !startTime.Before(endTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidationFailed)
	}

	var windows []Window
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		if excludeWeekends {
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		windows = append(windows, Window{
			StartAt: startTime.On(day),
			EndAt:   endTime.On(day),
		})
	}
	return windows, nil
}
