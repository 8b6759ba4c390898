package experience

import (
	"context"
	"time"

	"github.com/suppertable/experience-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type ExperienceRepo interface {
	Create(ctx context.Context, e *domain.Experience) error
	GetByID(ctx context.Context, id string) (*domain.Experience, error)
	Update(ctx context.Context, e *domain.Experience) error

	ListPublic(ctx context.Context, f ListFilter) ([]*domain.Experience, int, error)
	ListByHost(ctx context.Context, hostID string, page, pageSize int) ([]*domain.Experience, int, error)

	// Counter adjustments driven by collaborator events (clamped in SQL).
	DecrementSpots(ctx context.Context, experienceID string, tickets int) error
	IncrementSpots(ctx context.Context, experienceID string, tickets int) error

	WithTx(ctx context.Context, fn func(tr TxExperienceRepo) error) error
}

// TxExperienceRepo is the slice of the repo available inside WithTx. The
// row lock taken by GetByIDForUpdate is what makes reconciliation safe
// against a concurrent booking confirmation.
type TxExperienceRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Experience, error)
	Update(ctx context.Context, e *domain.Experience) error
	SumConfirmedTickets(ctx context.Context, experienceID string) (int, error)
	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

// BookingReader gives the host surface read access to an experience's
// bookings for capacity checks and stats.
type BookingReader interface {
	ListByExperience(ctx context.Context, experienceID string) ([]domain.Booking, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
