package experience

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	contracts "github.com/suppertable/experience-service/internal/contracts/event"
	"github.com/suppertable/experience-service/internal/domain"
	appctx "github.com/suppertable/experience-service/internal/pkg/context"
)

// CheckCapacity recomputes the expected spots-left from the confirmed-booking
// ledger and classifies the cached counter. Read-only: the host UI shows the
// report as a dismissible banner with a one-click repair.
func (s *Service) CheckCapacity(ctx context.Context, experienceID, actorID, actorRole string) (domain.CapacityReport, error) {
	e, err := s.repo.GetByID(ctx, experienceID)
	if err != nil {
		return domain.CapacityReport{}, err
	}
	if !canManage(actorID, actorRole, e.HostID) {
		return domain.CapacityReport{}, domain.ErrForbidden("not allowed")
	}

	bs, err := s.bookings.ListByExperience(ctx, experienceID)
	if err != nil {
		return domain.CapacityReport{}, err
	}

	report := domain.CheckCapacity(*e, bs)
	switch report.Status {
	case domain.CapacityInvalid:
		// out-of-range values mean an upstream bug (overbooking), not drift
		zlog.Error().
			Str("experience_id", experienceID).
			Int("cached", report.Cached).
			Int("expected", report.Expected).
			Str("detail", report.Detail).
			Msg("capacity counter invalid")
	case domain.CapacityDrifted:
		zlog.Warn().
			Str("experience_id", experienceID).
			Int("cached", report.Cached).
			Int("expected", report.Expected).
			Msg("capacity counter drifted")
	}
	return report, nil
}

// Reconcile repairs the cached spots-left inside a transaction that locks the
// experience row, so a booking confirmation landing at the same moment cannot
// interleave with the repair. The operation is idempotent: re-running it
// against the same confirmed set writes the same value.
func (s *Service) Reconcile(ctx context.Context, experienceID, actorID, actorRole string) (*domain.Experience, domain.CapacityReport, error) {
	var (
		out    *domain.Experience
		report domain.CapacityReport
	)

	err := s.repo.WithTx(ctx, func(r TxExperienceRepo) error {
		e, err := r.GetByIDForUpdate(ctx, experienceID)
		if err != nil {
			return err
		}
		if !canManage(actorID, actorRole, e.HostID) {
			return domain.ErrForbidden("not allowed")
		}

		confirmed, err := r.SumConfirmedTickets(ctx, experienceID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		previous := e.SpotsLeft

		expected := e.Capacity - confirmed
		if expected < 0 {
			expected = 0
		}
		e.SpotsLeft = expected
		e.UpdatedAt = now

		if err := r.Update(ctx, e); err != nil {
			return err
		}

		report = domain.CapacityReport{
			Status:           domain.CapacityConsistent,
			Capacity:         e.Capacity,
			Cached:           e.SpotsLeft,
			ConfirmedTickets: confirmed,
			Expected:         expected,
		}

		messageID := uuid.NewString()
		env := contracts.DomainEventEnvelope[contracts.ExperienceReconciledPayload]{
			Version:    contracts.Version,
			Producer:   contracts.Producer,
			MessageID:  messageID,
			TraceID:    appctx.GetRequestID(ctx),
			OccurredAt: now,
			Payload: contracts.ExperienceReconciledPayload{
				ExperienceID:     e.ID,
				Capacity:         e.Capacity,
				PreviousCached:   previous,
				ConfirmedTickets: confirmed,
				SpotsLeft:        e.SpotsLeft,
				Consistency:      string(domain.CapacityConsistent),
			},
		}
		body, err := json.Marshal(env)
		if err != nil {
			return err
		}
		if err := r.InsertOutbox(ctx, OutboxMessage{
			MessageID:  messageID,
			RoutingKey: "experience.reconciled",
			Body:       body,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		out = e
		return nil
	})
	if err != nil {
		return nil, domain.CapacityReport{}, err
	}

	// derived reads must recompute from the corrected value
	if s.cache != nil && out != nil {
		keys := []string{cacheKeyDetails(out.ID), cacheKeyStats(out.ID)}
		if err := s.cache.Delete(ctx, keys...); err != nil {
			zlog.Warn().Err(err).Strs("keys", keys).Msg("cache invalidate failed")
		}
	}

	return out, report, nil
}
