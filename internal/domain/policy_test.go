package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCancellable_Boundary(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	b := Booking{Status: BookingConfirmed}

	t.Run("one_second_outside_window_is_cancellable", func(t *testing.T) {
		start := now.Add(CancellationCutoff + time.Second)
		assert.True(t, IsCancellable(b, start, now))
	})

	t.Run("exactly_at_deadline_is_not_cancellable", func(t *testing.T) {
		start := now.Add(CancellationCutoff)
		assert.False(t, IsCancellable(b, start, now))
	})

	t.Run("one_second_inside_window_is_not_cancellable", func(t *testing.T) {
		start := now.Add(CancellationCutoff - time.Second)
		assert.False(t, IsCancellable(b, start, now))
	})

	t.Run("non_confirmed_statuses_never_cancellable", func(t *testing.T) {
		start := now.Add(100 * time.Hour)
		assert.False(t, IsCancellable(Booking{Status: BookingPending}, start, now))
		assert.False(t, IsCancellable(Booking{Status: BookingCancelled}, start, now))
	})

	t.Run("unknown_start_time_is_not_cancellable", func(t *testing.T) {
		assert.False(t, IsCancellable(b, time.Time{}, now))
	})

	t.Run("free_booking_gets_same_gate", func(t *testing.T) {
		free := Booking{Status: BookingConfirmed, TotalAmount: 0}
		assert.False(t, IsCancellable(free, now.Add(47*time.Hour), now))
	})
}

func TestTimeUntilDeadline_Tiers(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	b := Booking{Status: BookingConfirmed}

	t.Run("event_47h_away_is_passed", func(t *testing.T) {
		n := TimeUntilDeadline(b, now.Add(47*time.Hour), now)
		assert.NotNil(t, n)
		assert.Equal(t, DeadlinePassed, n.Tier)
		assert.Equal(t, "cancellation deadline passed", n.Message)
	})

	t.Run("event_71h_away_is_near", func(t *testing.T) {
		// 23h of margin before the 48h gate closes
		n := TimeUntilDeadline(b, now.Add(71*time.Hour), now)
		assert.NotNil(t, n)
		assert.Equal(t, DeadlineNear, n.Tier)
		assert.Equal(t, "23 hours left to cancel", n.Message)
	})

	t.Run("event_100h_away_is_comfortable", func(t *testing.T) {
		// 52h of margin
		n := TimeUntilDeadline(b, now.Add(100*time.Hour), now)
		assert.NotNil(t, n)
		assert.Equal(t, DeadlineComfortable, n.Tier)
		assert.Equal(t, "2 days left to cancel", n.Message)
	})

	t.Run("event_50h_away_is_near_not_comfortable", func(t *testing.T) {
		// margin is measured to the deadline, not to the start: 2h left
		n := TimeUntilDeadline(b, now.Add(50*time.Hour), now)
		assert.NotNil(t, n)
		assert.Equal(t, DeadlineNear, n.Tier)
		assert.Equal(t, "2 hours left to cancel", n.Message)
	})

	t.Run("exactly_at_deadline_is_passed", func(t *testing.T) {
		n := TimeUntilDeadline(b, now.Add(CancellationCutoff), now)
		assert.NotNil(t, n)
		assert.Equal(t, DeadlinePassed, n.Tier)
	})

	t.Run("nil_for_non_confirmed_booking", func(t *testing.T) {
		assert.Nil(t, TimeUntilDeadline(Booking{Status: BookingCancelled}, now.Add(100*time.Hour), now))
	})

	t.Run("nil_for_unknown_start", func(t *testing.T) {
		assert.Nil(t, TimeUntilDeadline(b, time.Time{}, now))
	})

	t.Run("deadline_is_start_minus_48h", func(t *testing.T) {
		start := now.Add(72 * time.Hour)
		n := TimeUntilDeadline(b, start, now)
		assert.NotNil(t, n)
		assert.Equal(t, start.Add(-48*time.Hour), n.Deadline)
		assert.Equal(t, 24*time.Hour, n.Remaining)
	})
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "3 days", formatRemaining(80*time.Hour))
	assert.Equal(t, "6 hours", formatRemaining(6*time.Hour+30*time.Minute))
	assert.Equal(t, "45 minutes", formatRemaining(45*time.Minute))
	assert.Equal(t, "less than a minute", formatRemaining(30*time.Second))
}
