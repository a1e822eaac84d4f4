package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(eventID int64, start, end time.Time, instructors ...int64) Candidate {
	return Candidate{EventID: eventID, InstructorIDs: instructors, StartAt: start, EndAt: end}
}

func TestCheckBatch(t *testing.T) {
	t.Run("empty batch is clean", func(t *testing.T) {
		assert.Empty(t, CheckBatch(nil))
	})

	t.Run("disjoint candidates are clean", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(1, at(9), at(11), 7),
			candidate(2, at(11), at(13), 7),
			candidate(3, at(14), at(16), 7),
		})
		assert.Empty(t, pairs)
	})

	t.Run("identical intervals for a shared instructor are reported", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(1, at(9), at(11), 7),
			candidate(2, at(9), at(11), 7),
		})
		require.Len(t, pairs, 1)
		assert.Equal(t, int64(7), pairs[0].InstructorID)
		assert.Equal(t, int64(1), pairs[0].EventIDA)
		assert.Equal(t, int64(2), pairs[0].EventIDB)
		assert.Equal(t, at(9), pairs[0].StartAt)
		assert.Equal(t, at(11), pairs[0].EndAt)
	})

	t.Run("different instructors never conflict", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(1, at(9), at(11), 7),
			candidate(2, at(9), at(11), 8),
		})
		assert.Empty(t, pairs)
	})

	t.Run("every overlapping pair is reported", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(1, at(9), at(12), 7),
			candidate(2, at(10), at(13), 7),
			candidate(3, at(11), at(14), 7),
		})
		// 1-2, 1-3 and 2-3 all overlap
		assert.Len(t, pairs, 3)
	})

	t.Run("window of the earlier candidate is reported", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(2, at(10), at(12), 7),
			candidate(1, at(9), at(11), 7),
		})
		require.Len(t, pairs, 1)
		assert.Equal(t, int64(1), pairs[0].EventIDA)
		assert.Equal(t, at(9), pairs[0].StartAt)
	})

	t.Run("shared instructor across multi-instructor rosters", func(t *testing.T) {
		pairs := CheckBatch([]Candidate{
			candidate(1, at(9), at(11), 7, 8),
			candidate(2, at(10), at(12), 8, 9),
		})
		require.Len(t, pairs, 1)
		assert.Equal(t, int64(8), pairs[0].InstructorID)
	})
}
