package booking

import (
	"context"
	"strings"

	"github.com/suppertable/experience-service/internal/domain"
)

type View string

const (
	ViewAll      View = ""
	ViewUpcoming View = "upcoming"
	ViewPast     View = "past"
)

// BookingListItem decorates a booking row with the derived cancellation
// affordances. Deadline is only attached in the upcoming view: past and
// cancelled cards carry no countdown.
type BookingListItem struct {
	BookingRow

	Cancellable bool
	Deadline    *domain.DeadlineNotice
}

func (s *Service) ListMine(ctx context.Context, guestID string, view View) ([]BookingListItem, error) {
	if strings.TrimSpace(guestID) == "" {
		return nil, domain.ErrForbidden("not allowed")
	}
	switch view {
	case ViewAll, ViewUpcoming, ViewPast:
	default:
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			"view": "must be one of: upcoming, past",
		})
	}

	rows, err := s.repo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]BookingListItem, 0, len(rows))
	for _, row := range rows {
		upcoming := row.StartTime.After(now)
		switch view {
		case ViewUpcoming:
			if !upcoming {
				continue
			}
		case ViewPast:
			if upcoming {
				continue
			}
		}

		item := BookingListItem{BookingRow: row}
		item.Cancellable = domain.IsCancellable(row.Booking, row.StartTime, now)
		if upcoming {
			item.Deadline = domain.TimeUntilDeadline(row.Booking, row.StartTime, now)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, bookingID, guestID string) (*BookingListItem, error) {
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
	item := &BookingListItem{
		BookingRow: BookingRow{
			Booking:         *b,
			ExperienceTitle: e.Title,
			ExperienceCity:  e.City,
			StartTime:       e.StartTime,
			Price:           e.Price,
		},
	}
	item.Cancellable = domain.IsCancellable(*b, e.StartTime, now)
	if e.StartTime.After(now) {
		item.Deadline = domain.TimeUntilDeadline(*b, e.StartTime, now)
	}
	return item, nil
}
