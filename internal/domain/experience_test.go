package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return tt.UTC()
}

func TestNewDraft_Validation(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	start := now.Add(14 * 24 * time.Hour)

	t.Run("valid_draft_creation", func(t *testing.T) {
		e, err := NewDraft("host-1", "Pasta Workshop", "Hand-rolled tortellini", "Bologna", "Italian", "48h", start, 180, 85, 12, now)
		assert.NoError(t, err)
		assert.NotNil(t, e)
		assert.Equal(t, StatusDraft, e.Status)
		assert.Equal(t, 12, e.SpotsLeft, "fresh draft starts with all spots open")
		assert.NotEmpty(t, e.ID)
	})

	t.Run("fail_on_empty_host", func(t *testing.T) {
		_, err := NewDraft("", "t", "d", "c", "cui", "", start, 60, 0, 0, now)
		assert.Error(t, err)
		assert.Equal(t, CodeValidation, err.(*AppError).Code)
	})

	t.Run("fail_on_negative_capacity", func(t *testing.T) {
		_, err := NewDraft("h", "t", "d", "c", "cui", "", start, 60, 0, -1, now)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "capacity must be >= 0")
	})

	t.Run("fail_on_negative_price", func(t *testing.T) {
		_, err := NewDraft("h", "t", "d", "c", "cui", "", start, 60, -5, 10, now)
		assert.Error(t, err)
	})

	t.Run("fail_on_unknown_policy_value", func(t *testing.T) {
		_, err := NewDraft("h", "t", "d", "c", "cui", "2 weeks", start, 60, 0, 10, now)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cancellation_policy")
	})
}

func TestExperience_Lifecycle(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")

	t.Run("publish_success", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "48h", now.Add(time.Hour), 60, 40, 8, now)
		err := e.Publish(now)
		assert.NoError(t, err)
		assert.Equal(t, StatusPublished, e.Status)
		assert.NotNil(t, e.PublishedAt)
	})

	t.Run("cannot_publish_past_start", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "", now.Add(time.Hour), 60, 0, 0, now)
		err := e.Publish(now.Add(2 * time.Hour))
		assert.Error(t, err)
	})

	t.Run("cannot_publish_twice", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "", now.Add(time.Hour), 60, 0, 0, now)
		assert.NoError(t, e.Publish(now))
		assert.Error(t, e.Publish(now))
	})

	t.Run("unpublish_back_to_draft", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "", now.Add(time.Hour), 60, 0, 0, now)
		assert.NoError(t, e.Publish(now))
		assert.NoError(t, e.Unpublish(now))
		assert.Equal(t, StatusDraft, e.Status)
	})
}

func TestExperience_ApplyUpdate(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	newTitle := "Natural Wine Tasting"
	badTitle := ""
	newCap := 16

	t.Run("partial_update_touches_only_given_fields", func(t *testing.T) {
		e, _ := NewDraft("h", "Old Title", "d", "c", "cui", "48h", now.Add(48*time.Hour), 90, 60, 10, now)
		err := e.ApplyUpdate(&newTitle, nil, nil, nil, nil, nil, nil, nil, &newCap, now)
		assert.NoError(t, err)
		assert.Equal(t, newTitle, e.Title)
		assert.Equal(t, 16, e.Capacity)
		assert.Equal(t, "d", e.Description)
		// spots_left deliberately untouched until reconciliation
		assert.Equal(t, 10, e.SpotsLeft)
	})

	t.Run("rejects_invalid_field", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "", now.Add(48*time.Hour), 90, 0, 10, now)
		err := e.ApplyUpdate(&badTitle, nil, nil, nil, nil, nil, nil, nil, nil, now)
		assert.Error(t, err)
	})

	t.Run("rejects_update_after_start", func(t *testing.T) {
		e, _ := NewDraft("h", "t", "d", "c", "cui", "", now.Add(time.Hour), 90, 0, 10, now)
		err := e.ApplyUpdate(&newTitle, nil, nil, nil, nil, nil, nil, nil, nil, now.Add(2*time.Hour))
		assert.Error(t, err)
		assert.Equal(t, CodeInvalidState, err.(*AppError).Code)
	})
}

func TestBooking_Cancel(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")

	t.Run("confirmed_to_cancelled_sets_timestamp_once", func(t *testing.T) {
		b := Booking{ID: "b1", Status: BookingConfirmed}
		assert.NoError(t, b.Cancel(now))
		assert.Equal(t, BookingCancelled, b.Status)
		assert.NotNil(t, b.CancelledAt)
		assert.Equal(t, now, *b.CancelledAt)
	})

	t.Run("cancelled_is_terminal", func(t *testing.T) {
		b := Booking{Status: BookingCancelled}
		assert.Error(t, b.Cancel(now))
	})

	t.Run("pending_cannot_be_cancelled_here", func(t *testing.T) {
		b := Booking{Status: BookingPending}
		assert.Error(t, b.Cancel(now))
	})
}
