//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() schedule.Rules {
	return schedule.Rules{
		OpenHour:      9,
		CloseHour:     18,
		SlotDuration:  time.Hour,
		ClosedWeekday: time.Sunday,
		MinLeadTime:   2 * time.Hour,
		HorizonDays:   7,
	}
}

func TestCandidates(t *testing.T) {
	// Monday 2026-03-02, 08:00 UTC
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	candidates, err := schedule.Candidates(testRules(), now)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	t.Run("honors minimum lead time", func(t *testing.T) {
		earliest := candidates[0]
		assert.False(t, earliest.Start().Before(now.Add(2*time.Hour)))
	})

	t.Run("stays inside business hours", func(t *testing.T) {
		for _, w := range candidates {
			assert.GreaterOrEqual(t, w.Start().Hour(), 9)
			assert.LessOrEqual(t, w.End().Hour(), 18)
		}
	})

	t.Run("skips the closed weekday", func(t *testing.T) {
		for _, w := range candidates {
			assert.NotEqual(t, time.Sunday, w.Start().Weekday())
		}
	})

	t.Run("sorted earliest first", func(t *testing.T) {
		for i := 1; i < len(candidates); i++ {
			assert.True(t, candidates[i-1].Start().Before(candidates[i].Start()))
		}
	})
}

func TestCandidates_InvalidRules(t *testing.T) {
	rules := testRules()
	rules.OpenHour = 18
	rules.CloseHour = 9

	_, err := schedule.Candidates(rules, time.Now())
	assert.ErrorIs(t, err, schedule.ErrInvalidHours)
}

func TestFirstFree(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rules := testRules()

	t.Run("returns the first candidate when nothing is busy", func(t *testing.T) {
		window, found, err := schedule.FirstFree(rules, now, nil)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 10, window.Start().Hour())
	})

	t.Run("steps over busy windows", func(t *testing.T) {
		busyStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		busy, err := reservation.NewTimeWindow(busyStart, busyStart.Add(time.Hour))
		require.NoError(t, err)

		window, found, err := schedule.FirstFree(rules, now, []reservation.TimeWindow{busy})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 11, window.Start().Hour())
	})

	t.Run("reports no slot when the horizon is fully booked", func(t *testing.T) {
		candidates, err := schedule.Candidates(rules, now)
		require.NoError(t, err)

		_, found, err := schedule.FirstFree(rules, now, candidates)
		require.NoError(t, err)
		assert.False(t, found)
	})
}
