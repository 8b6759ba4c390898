package experience

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"
)

// ApplyBookingConfirmed consumes the booking collaborator's confirmation and
// decrements the cached spots counter. The decrement is clamped at zero in
// SQL; any drift this best-effort path accumulates is what the capacity
// reconciliation exists to repair.
func (s *Service) ApplyBookingConfirmed(ctx context.Context, experienceID string, tickets int) error {
	if tickets <= 0 {
		tickets = 1
	}

	s.InvalidateExperience(ctx, experienceID)

	if err := s.repo.DecrementSpots(ctx, experienceID, tickets); err != nil {
		return fmt.Errorf("decrement spots: %w", err)
	}

	zlog.Info().Str("experience_id", experienceID).Int("tickets", tickets).Msg("spots decremented")
	return nil
}

// ApplyBookingRefunded restores spots after an admin-side refund performed
// outside this service's own cancellation flow.
func (s *Service) ApplyBookingRefunded(ctx context.Context, experienceID string, tickets int) error {
	if tickets <= 0 {
		tickets = 1
	}

	s.InvalidateExperience(ctx, experienceID)

	if err := s.repo.IncrementSpots(ctx, experienceID, tickets); err != nil {
		return fmt.Errorf("increment spots: %w", err)
	}

	zlog.Info().Str("experience_id", experienceID).Int("tickets", tickets).Msg("spots restored")
	return nil
}

// InvalidateExperience evicts the cached details and stats entries for an
// experience. Every spots-affecting write goes through here, including the
// booking service's cancellation path, so stale counters never outlive the
// write that changed them. Best effort: a cache failure is logged, not
// returned.
func (s *Service) InvalidateExperience(ctx context.Context, experienceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyDetails(experienceID), cacheKeyStats(experienceID)); err != nil {
		zlog.Warn().Err(err).Str("experience_id", experienceID).Msg("failed to invalidate cache")
	}
}
