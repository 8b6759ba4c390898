package dto

import "time"

// ExperienceResp is the stable API response model. Derived fields (started,
// bookable) are computed at render time, not stored.
type ExperienceResp struct {
	ID     string `json:"id"`
	HostID string `json:"host_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	City        string `json:"city"`
	Cuisine     string `json:"cuisine"`

	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`

	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	SpotsLeft int     `json:"spots_left"`

	CancellationPolicy string `json:"cancellation_policy,omitempty"`

	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived
	Started  bool `json:"started"`
	Bookable bool `json:"bookable"`
}

type CapacityReportResp struct {
	Status           string `json:"status"`
	Capacity         int    `json:"capacity"`
	Cached           int    `json:"cached"`
	ConfirmedTickets int    `json:"confirmed_tickets"`
	Expected         int    `json:"expected"`
	Detail           string `json:"detail,omitempty"`
}

type StatsResp struct {
	TotalAttendees           int     `json:"total_attendees"`
	TotalRevenue             float64 `json:"total_revenue"`
	CapacityUtilization      float64 `json:"capacity_utilization"`
	AverageTicketsPerBooking float64 `json:"average_tickets_per_booking"`
	CancellationRate         float64 `json:"cancellation_rate"`
}

type DeadlineResp struct {
	Tier      string    `json:"tier"`
	Deadline  time.Time `json:"deadline"`
	Remaining string    `json:"remaining"`
	Message   string    `json:"message"`
}

// BookingResp is the guest-facing card: booking fields joined with the
// experience slice the UI needs plus the derived cancellation affordances.
type BookingResp struct {
	ID           string `json:"id"`
	ExperienceID string `json:"experience_id"`

	ExperienceTitle string    `json:"experience_title"`
	ExperienceCity  string    `json:"experience_city"`
	StartTime       time.Time `json:"start_time"`
	Price           float64   `json:"price"`

	Tickets     int     `json:"tickets"`
	TotalAmount float64 `json:"total_amount"`

	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Derived
	Cancellable bool          `json:"cancellable"`
	Deadline    *DeadlineResp `json:"deadline,omitempty"`
}

type PageResp[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}
