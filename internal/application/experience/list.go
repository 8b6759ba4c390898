package experience

import (
	"context"
	"strings"
	"time"

	"github.com/suppertable/experience-service/internal/domain"
)

type ListFilter struct {
	City    string
	Cuisine string
	From    *time.Time
	To      *time.Time

	Page     int
	PageSize int
}

func (f *ListFilter) Normalize() error {
	f.City = strings.TrimSpace(f.City)
	f.Cuisine = strings.TrimSpace(f.Cuisine)

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return domain.ErrValidation("to must be >= from")
	}
	return nil
}

func (s *Service) ListPublic(ctx context.Context, f ListFilter) ([]*domain.Experience, int, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, err
	}
	return s.repo.ListPublic(ctx, f)
}

func (s *Service) ListMine(ctx context.Context, actorID string, page, pageSize int) ([]*domain.Experience, int, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, 0, domain.ErrForbidden("not allowed")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.ListByHost(ctx, actorID, page, pageSize)
}
