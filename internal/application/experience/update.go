package experience

import (
	"context"
	"time"

	"github.com/suppertable/experience-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type UpdateCmd struct {
	ActorID      string
	ActorRole    string
	ExperienceID string

	Title              *string
	Description        *string
	City               *string
	Cuisine            *string
	CancellationPolicy *string
	StartTime          *time.Time
	DurationMinutes    *int
	Price              *float64
	Capacity           *int
}

func (s *Service) Update(ctx context.Context, cmd UpdateCmd) (*domain.Experience, error) {
	e, err := s.repo.GetByID(ctx, cmd.ExperienceID)
	if err != nil {
		return nil, err
	}

	if !canManage(cmd.ActorID, cmd.ActorRole, e.HostID) {
		return nil, domain.ErrForbidden("not allowed")
	}

	if err := e.ApplyUpdate(cmd.Title, cmd.Description, cmd.City, cmd.Cuisine,
		cmd.CancellationPolicy, cmd.StartTime, cmd.DurationMinutes, cmd.Price, cmd.Capacity,
		s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := cacheKeyDetails(e.ID)
		if err := s.cache.Delete(ctx, key); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
		}
	}

	return e, nil
}
