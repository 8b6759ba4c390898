package domain

// Stats are host-facing aggregates over an experience's bookings. Every ratio
// has an explicit zero-denominator guard; no NaN or Inf may reach a caller.
type Stats struct {
	TotalAttendees           int
	TotalRevenue             float64
	CapacityUtilization      float64 // percent, 0..100
	AverageTicketsPerBooking float64
	CancellationRate         float64 // percent, 0..100
}

func ComputeStats(e Experience, bs []Booking) Stats {
	var s Stats
	confirmedCount := 0
	cancelledCount := 0

	for _, b := range bs {
		switch b.Status {
		case BookingConfirmed:
			confirmedCount++
			s.TotalAttendees += b.Tickets
			s.TotalRevenue += b.TotalAmount
		case BookingCancelled:
			cancelledCount++
		}
	}

	if e.Capacity > 0 {
		u := float64(s.TotalAttendees) / float64(e.Capacity) * 100
		if u < 0 {
			u = 0
		}
		if u > 100 {
			u = 100
		}
		s.CapacityUtilization = u
	}
	if confirmedCount > 0 {
		s.AverageTicketsPerBooking = float64(s.TotalAttendees) / float64(confirmedCount)
	}
	if len(bs) > 0 {
		s.CancellationRate = float64(cancelledCount) / float64(len(bs)) * 100
	}
	return s
}
