package experience

import (
	"context"

	"github.com/suppertable/experience-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

func (s *Service) Stats(ctx context.Context, experienceID, actorID, actorRole string) (domain.Stats, error) {
	e, err := s.repo.GetByID(ctx, experienceID)
	if err != nil {
		return domain.Stats{}, err
	}
	if !canManage(actorID, actorRole, e.HostID) {
		return domain.Stats{}, domain.ErrForbidden("not allowed")
	}

	key := cacheKeyStats(experienceID)
	if s.cache != nil {
		var cached domain.Stats
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return cached, nil
		}
	}

	bs, err := s.bookings.ListByExperience(ctx, experienceID)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.ComputeStats(*e, bs)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.ttlStats); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return stats, nil
}
