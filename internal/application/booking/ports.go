package booking

import (
	"context"
	"time"

	"github.com/suppertable/experience-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// BookingRow is the guest-list read model: a booking joined with the slice of
// its experience the guest surface needs (deadline math, card copy).
type BookingRow struct {
	Booking domain.Booking

	ExperienceTitle string
	ExperienceCity  string
	StartTime       time.Time
	Price           float64
}

type BookingRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]BookingRow, error)

	WithTx(ctx context.Context, fn func(tr TxBookingRepo) error) error
}

// TxBookingRepo runs inside the cancellation transaction. Rollback on any
// error is what keeps a failed cancel from half-transitioning the booking.
type TxBookingRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	RestoreSpots(ctx context.Context, experienceID string, tickets int) error
	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

type ExperienceReader interface {
	GetByID(ctx context.Context, id string) (*domain.Experience, error)
}

type Notifier interface {
	Notify(kind, title, message string)
}

// CacheInvalidator evicts an experience's cached read models after a write
// changes them. Fire-and-forget: implementations log failures instead of
// returning them.
type CacheInvalidator interface {
	InvalidateExperience(ctx context.Context, experienceID string)
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
