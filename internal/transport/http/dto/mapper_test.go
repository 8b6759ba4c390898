package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suppertable/experience-service/internal/application/booking"
	"github.com/suppertable/experience-service/internal/domain"
)

func TestToExperienceResp_Derived(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	base := domain.Experience{
		ID:        "exp_1",
		Status:    domain.StatusPublished,
		StartTime: now.Add(72 * time.Hour),
		Capacity:  10,
		SpotsLeft: 4,
	}

	t.Run("published_future_with_spots_is_bookable", func(t *testing.T) {
		e := base
		resp := ToExperienceResp(&e, now)
		assert.True(t, resp.Bookable)
		assert.False(t, resp.Started)
	})

	t.Run("sold_out_not_bookable", func(t *testing.T) {
		e := base
		e.SpotsLeft = 0
		resp := ToExperienceResp(&e, now)
		assert.False(t, resp.Bookable)
	})

	t.Run("draft_not_bookable", func(t *testing.T) {
		e := base
		e.Status = domain.StatusDraft
		resp := ToExperienceResp(&e, now)
		assert.False(t, resp.Bookable)
	})

	t.Run("started_not_bookable", func(t *testing.T) {
		e := base
		e.StartTime = now.Add(-time.Hour)
		resp := ToExperienceResp(&e, now)
		assert.True(t, resp.Started)
		assert.False(t, resp.Bookable)
	})
}

func TestToBookingResp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(100 * time.Hour)

	item := booking.BookingListItem{
		BookingRow: booking.BookingRow{
			Booking: domain.Booking{
				ID:           "bk_1",
				ExperienceID: "exp_1",
				Tickets:      2,
				TotalAmount:  170,
				Status:       domain.BookingConfirmed,
			},
			ExperienceTitle: "Ramen Masterclass",
			StartTime:       start,
			Price:           85,
		},
		Cancellable: true,
		Deadline: &domain.DeadlineNotice{
			Tier:      domain.DeadlineComfortable,
			Deadline:  start.Add(-48 * time.Hour),
			Remaining: 52 * time.Hour,
			Message:   "2 days left to cancel",
		},
	}

	resp := ToBookingResp(item)
	assert.Equal(t, "bk_1", resp.ID)
	assert.True(t, resp.Cancellable)
	assert.Equal(t, "comfortable", resp.Deadline.Tier)
	assert.Equal(t, "2 days left to cancel", resp.Deadline.Message)

	t.Run("nil_deadline_omitted", func(t *testing.T) {
		item.Deadline = nil
		resp := ToBookingResp(item)
		assert.Nil(t, resp.Deadline)
	})
}
