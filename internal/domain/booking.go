package domain

import "time"

// Booking is created by the booking/payment collaborator. This service reads
// bookings and owns exactly one transition: confirmed -> cancelled.
type Booking struct {
	ID           string
	ExperienceID string
	GuestID      string

	Tickets     int
	TotalAmount float64

	Status      BookingStatus
	CancelledAt *time.Time

	CreatedAt time.Time
}

// Cancel performs the confirmed -> cancelled transition. CancelledAt is set
// exactly once; re-cancelling is an invalid state, not a no-op.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status != BookingConfirmed {
		return ErrInvalidState("only a confirmed booking can be cancelled")
	}
	t := now.UTC()
	b.Status = BookingCancelled
	b.CancelledAt = &t
	return nil
}
