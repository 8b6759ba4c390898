package dto

import (
	"time"

	"github.com/suppertable/experience-service/internal/application/booking"
	"github.com/suppertable/experience-service/internal/domain"
)

func ToExperienceResp(e *domain.Experience, now time.Time) ExperienceResp {
	started := e.HasStarted(now)

	// bookable rules for the booking collaborator:
	// - published, not started, spots remaining
	bookable := e.Status == domain.StatusPublished && !started && e.SpotsLeft > 0

	return ExperienceResp{
		ID:          e.ID,
		HostID:      e.HostID,
		Title:       e.Title,
		Description: e.Description,
		City:        e.City,
		Cuisine:     e.Cuisine,

		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes,

		Price:     e.Price,
		Capacity:  e.Capacity,
		SpotsLeft: e.SpotsLeft,

		CancellationPolicy: e.CancellationPolicy,

		Status:      string(e.Status),
		PublishedAt: e.PublishedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,

		Started:  started,
		Bookable: bookable,
	}
}

func ToCapacityReportResp(r domain.CapacityReport) CapacityReportResp {
	return CapacityReportResp{
		Status:           string(r.Status),
		Capacity:         r.Capacity,
		Cached:           r.Cached,
		ConfirmedTickets: r.ConfirmedTickets,
		Expected:         r.Expected,
		Detail:           r.Detail,
	}
}

func ToStatsResp(s domain.Stats) StatsResp {
	return StatsResp{
		TotalAttendees:           s.TotalAttendees,
		TotalRevenue:             s.TotalRevenue,
		CapacityUtilization:      s.CapacityUtilization,
		AverageTicketsPerBooking: s.AverageTicketsPerBooking,
		CancellationRate:         s.CancellationRate,
	}
}

func toDeadlineResp(n *domain.DeadlineNotice) *DeadlineResp {
	if n == nil {
		return nil
	}
	return &DeadlineResp{
		Tier:      string(n.Tier),
		Deadline:  n.Deadline,
		Remaining: n.Remaining.String(),
		Message:   n.Message,
	}
}

func ToBookingResp(item booking.BookingListItem) BookingResp {
	b := item.Booking
	return BookingResp{
		ID:           b.ID,
		ExperienceID: b.ExperienceID,

		ExperienceTitle: item.ExperienceTitle,
		ExperienceCity:  item.ExperienceCity,
		StartTime:       item.StartTime,
		Price:           item.Price,

		Tickets:     b.Tickets,
		TotalAmount: b.TotalAmount,

		Status:      string(b.Status),
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,

		Cancellable: item.Cancellable,
		Deadline:    toDeadlineResp(item.Deadline),
	}
}
