package domain

import (
	"fmt"
	"time"
)

// Cancellation policy. The cutoff is fixed at 48 hours for every experience:
// the per-experience CancellationPolicy field is stored and displayed but not
// consulted here. Free experiences get the same gate.
const (
	CancellationCutoff    = 48 * time.Hour
	DeadlineWarningWindow = 24 * time.Hour
)

type DeadlineTier string

const (
	DeadlinePassed      DeadlineTier = "passed"
	DeadlineNear        DeadlineTier = "near"
	DeadlineComfortable DeadlineTier = "comfortable"
)

// DeadlineNotice is the guest-facing countdown for the cancellation window.
type DeadlineNotice struct {
	Tier      DeadlineTier
	Deadline  time.Time
	Remaining time.Duration
	Message   string
}

// CancellationDeadline is the last instant at which cancellation is allowed.
func CancellationDeadline(start time.Time) time.Time {
	return start.Add(-CancellationCutoff)
}

// IsCancellable reports whether b may still be cancelled: the booking must be
// confirmed, the start instant must be known, and now must be strictly before
// start - 48h. At exactly the deadline the window is closed.
func IsCancellable(b Booking, start time.Time, now time.Time) bool {
	if b.Status != BookingConfirmed {
		return false
	}
	if start.IsZero() {
		return false
	}
	return now.Before(CancellationDeadline(start))
}

// TimeUntilDeadline builds the countdown notice for a confirmed booking, or
// nil when no notice applies (non-confirmed booking, unknown start time).
// Tiers: now >= deadline -> passed; <= 24h of margin left -> near; else
// comfortable.
func TimeUntilDeadline(b Booking, start time.Time, now time.Time) *DeadlineNotice {
	if b.Status != BookingConfirmed || start.IsZero() {
		return nil
	}

	deadline := CancellationDeadline(start)
	remaining := deadline.Sub(now)

	n := &DeadlineNotice{Deadline: deadline, Remaining: remaining}
	switch {
	case remaining <= 0:
		n.Tier = DeadlinePassed
		n.Message = "cancellation deadline passed"
	case remaining <= DeadlineWarningWindow:
		n.Tier = DeadlineNear
		n.Message = fmt.Sprintf("%s left to cancel", formatRemaining(remaining))
	default:
		n.Tier = DeadlineComfortable
		n.Message = fmt.Sprintf("%s left to cancel", formatRemaining(remaining))
	}
	return n
}

func formatRemaining(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return "less than a minute"
	}
}
