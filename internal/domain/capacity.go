package domain

import "fmt"

type ConsistencyStatus string

const (
	CapacityConsistent ConsistencyStatus = "consistent"
	CapacityDrifted    ConsistencyStatus = "drifted"
	CapacityInvalid    ConsistencyStatus = "invalid"
)

// CapacityReport is the result of checking an experience's cached SpotsLeft
// against the ground truth derived from its confirmed bookings.
type CapacityReport struct {
	Status ConsistencyStatus

	Capacity         int
	Cached           int
	ConfirmedTickets int
	Expected         int

	Detail string
}

// ConfirmedTickets sums ticket counts over the confirmed bookings in bs.
// Bookings in other states are ignored, so callers may pass an unfiltered set.
func ConfirmedTickets(bs []Booking) int {
	total := 0
	for _, b := range bs {
		if b.Status == BookingConfirmed {
			total += b.Tickets
		}
	}
	return total
}

// CheckCapacity classifies the relationship between the cached SpotsLeft and
// the expected value capacity - sum(confirmed tickets). First match wins:
//
//  1. expected < 0            -> invalid (oversold; upstream bug, reported not hidden)
//  2. cached < 0              -> invalid
//  3. cached > capacity       -> invalid
//  4. cached != expected      -> drifted
//  5. otherwise               -> consistent
//
// Pure; never errors; total over any non-negative capacity and booking set.
func CheckCapacity(e Experience, bs []Booking) CapacityReport {
	confirmed := ConfirmedTickets(bs)
	expected := e.Capacity - confirmed

	r := CapacityReport{
		Capacity:         e.Capacity,
		Cached:           e.SpotsLeft,
		ConfirmedTickets: confirmed,
		Expected:         expected,
	}

	switch {
	case expected < 0:
		r.Status = CapacityInvalid
		r.Detail = fmt.Sprintf("confirmed tickets (%d) exceed capacity (%d)", confirmed, e.Capacity)
	case e.SpotsLeft < 0:
		r.Status = CapacityInvalid
		r.Detail = fmt.Sprintf("cached spots_left is negative (%d)", e.SpotsLeft)
	case e.SpotsLeft > e.Capacity:
		r.Status = CapacityInvalid
		r.Detail = fmt.Sprintf("cached spots_left (%d) exceeds capacity (%d)", e.SpotsLeft, e.Capacity)
	case e.SpotsLeft != expected:
		r.Status = CapacityDrifted
		r.Detail = fmt.Sprintf("capacity %d with %d confirmed tickets expects %d spots left, cached value is %d",
			e.Capacity, confirmed, expected, e.SpotsLeft)
	default:
		r.Status = CapacityConsistent
	}
	return r
}

// ReconcileSpots returns a copy of e with SpotsLeft recomputed from the
// confirmed bookings, clamped at zero: a negative expected value is valid
// diagnostic state (see CheckCapacity) but never valid display state.
// Idempotent against a stable booking set; persisting is the caller's job.
func ReconcileSpots(e Experience, bs []Booking) Experience {
	expected := e.Capacity - ConfirmedTickets(bs)
	if expected < 0 {
		expected = 0
	}
	e.SpotsLeft = expected
	return e
}
