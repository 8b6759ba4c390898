package event

import "time"

const (
	Version  = 1
	Producer = "experience-service"
)

// DomainEventEnvelope is the stable contract for every domain event this
// service emits or consumes. Consumers rely on version/producer/message_id/
// occurred_at plus the payload; trace_id is optional but recommended.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// BookingCancelledPayload rides routing key booking.cancelled. The payment
// collaborator treats it as the refund-due signal.
type BookingCancelledPayload struct {
	BookingID    string    `json:"booking_id"`
	ExperienceID string    `json:"experience_id"`
	GuestID      string    `json:"guest_id"`
	Tickets      int       `json:"tickets"`
	RefundAmount float64   `json:"refund_amount"`
	CancelledAt  time.Time `json:"cancelled_at"`
}

// ExperienceReconciledPayload rides routing key experience.reconciled after
// an operator repairs a drifted spots_left counter.
type ExperienceReconciledPayload struct {
	ExperienceID     string `json:"experience_id"`
	Capacity         int    `json:"capacity"`
	PreviousCached   int    `json:"previous_cached"`
	ConfirmedTickets int    `json:"confirmed_tickets"`
	SpotsLeft        int    `json:"spots_left"`
	Consistency      string `json:"consistency"`
}

// BookingConfirmedPayload is consumed from the booking/payment collaborator
// (routing key booking.confirmed). Tolerant fields: extra JSON is ignored.
type BookingConfirmedPayload struct {
	BookingID    string `json:"booking_id"`
	ExperienceID string `json:"experience_id"`
	Tickets      int    `json:"tickets"`
}

// BookingRefundedPayload is consumed when the admin back-office refunds a
// booking directly (routing key booking.refunded); spots are restored here.
type BookingRefundedPayload struct {
	BookingID    string `json:"booking_id"`
	ExperienceID string `json:"experience_id"`
	Tickets      int    `json:"tickets"`
}
