package experience

import (
	"context"
	"time"

	"github.com/suppertable/experience-service/internal/domain"
)

type CreateCmd struct {
	ActorID   string
	ActorRole string

	Title              string
	Description        string
	City               string
	Cuisine            string
	CancellationPolicy string
	StartTime          time.Time
	DurationMinutes    int
	Price              float64
	Capacity           int
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Experience, error) {
	if !canHost(cmd.ActorRole) {
		return nil, domain.ErrForbidden("only a host or admin can create experiences")
	}
	now := s.clock.Now()
	e, err := domain.NewDraft(cmd.ActorID, cmd.Title, cmd.Description, cmd.City, cmd.Cuisine,
		cmd.CancellationPolicy, cmd.StartTime, cmd.DurationMinutes, cmd.Price, cmd.Capacity, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
