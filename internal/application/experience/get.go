package experience

import (
	"context"

	"github.com/suppertable/experience-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

func (s *Service) GetPublic(ctx context.Context, id string) (*domain.Experience, error) {
	key := cacheKeyDetails(id)
	var cached domain.Experience

	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return &cached, nil
		}
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.StatusPublished {
		return nil, domain.ErrNotFound("experience not found")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, e, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return e, nil
}

// GetForHost bypasses the cache: the host dashboard needs strict consistency,
// in particular a fresh SpotsLeft for the capacity banner.
func (s *Service) GetForHost(ctx context.Context, id, actorID, actorRole string) (*domain.Experience, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actorID, actorRole, e.HostID) {
		return nil, domain.ErrForbidden("not allowed")
	}
	return e, nil
}
