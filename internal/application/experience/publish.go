package experience

import (
	"context"

	"github.com/suppertable/experience-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

func (s *Service) Publish(ctx context.Context, experienceID, actorID, actorRole string) (*domain.Experience, error) {
	e, err := s.repo.GetByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, actorRole, e.HostID) {
		return nil, domain.ErrForbidden("not allowed")
	}

	if err := e.Publish(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Unpublish(ctx context.Context, experienceID, actorID, actorRole string) (*domain.Experience, error) {
	e, err := s.repo.GetByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, actorRole, e.HostID) {
		return nil, domain.ErrForbidden("not allowed")
	}

	if err := e.Unpublish(s.clock.Now()); err != nil {
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
