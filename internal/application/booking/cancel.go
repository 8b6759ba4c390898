package booking

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	contracts "github.com/suppertable/experience-service/internal/contracts/event"
	"github.com/suppertable/experience-service/internal/domain"
	appctx "github.com/suppertable/experience-service/internal/pkg/context"
)

// Cancel transitions a guest's confirmed booking to cancelled, restores the
// experience's spots and queues the refund-due signal, all in one
// transaction. On any failure the booking stays confirmed.
//
// Only one cancellation per booking id may be in flight: a second call while
// the first is pending is rejected without touching the store.
func (s *Service) Cancel(ctx context.Context, bookingID, guestID string) (*domain.Booking, error) {
	if !s.tryAcquire(bookingID) {
		return nil, domain.ErrInvalidState("cancellation already in progress")
	}
	defer s.release(bookingID)

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.GuestID != guestID {
		return nil, domain.ErrForbidden("not your booking")
	}

	e, err := s.experiences.GetByID(ctx, b.ExperienceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !domain.IsCancellable(*b, e.StartTime, now) {
		// the UI renders a "cannot cancel" dialog off this instead of
		// attempting a write that the server would refuse anyway
		return nil, domain.ErrInvalidState("booking can no longer be cancelled (less than 48 hours before start)")
	}

	var out *domain.Booking
	err = s.repo.WithTx(ctx, func(r TxBookingRepo) error {
		locked, err := r.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		// re-check under the row lock: an admin refund may have landed
		// between the eligibility check and here
		if err := locked.Cancel(now); err != nil {
			return err
		}

		if err := r.Update(ctx, locked); err != nil {
			return err
		}
		if err := r.RestoreSpots(ctx, locked.ExperienceID, locked.Tickets); err != nil {
			return err
		}

		messageID := uuid.NewString()
		env := contracts.DomainEventEnvelope[contracts.BookingCancelledPayload]{
			Version:    contracts.Version,
			Producer:   contracts.Producer,
			MessageID:  messageID,
			TraceID:    appctx.GetRequestID(ctx),
			OccurredAt: now.UTC(),
			Payload: contracts.BookingCancelledPayload{
				BookingID:    locked.ID,
				ExperienceID: locked.ExperienceID,
				GuestID:      locked.GuestID,
				Tickets:      locked.Tickets,
				RefundAmount: locked.TotalAmount,
				CancelledAt:  *locked.CancelledAt,
			},
		}
		body, err := json.Marshal(env)
		if err != nil {
			return err
		}
		if err := r.InsertOutbox(ctx, OutboxMessage{
			MessageID:  messageID,
			RoutingKey: "booking.cancelled",
			Body:       body,
			CreatedAt:  now.UTC(),
		}); err != nil {
			return err
		}

		out = locked
		return nil
	})
	if err != nil {
		zlog.Error().Err(err).Str("booking_id", bookingID).Msg("cancellation failed")
		return nil, err
	}

	// the committed RestoreSpots changed SpotsLeft and the cancellation rate,
	// so the cached details and stats are stale
	if s.cache != nil {
		s.cache.InvalidateExperience(ctx, out.ExperienceID)
	}

	s.notifier.Notify("success", "Booking cancelled",
		"Your refund will be processed within 5-10 business days.")

	return out, nil
}
