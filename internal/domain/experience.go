package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Experience is a bookable culinary event (tasting, workshop, dinner).
// SpotsLeft is a denormalized counter maintained by booking collaborators;
// the ground truth is always Capacity minus the confirmed-booking ticket sum.
type Experience struct {
	ID          string
	HostID      string
	Title       string
	Description string
	City        string
	Cuisine     string

	StartTime       time.Time
	DurationMinutes int

	Price     float64
	Capacity  int
	SpotsLeft int

	// CancellationPolicy is display copy only ("24h", "48h", "72h", "1w").
	// Eligibility enforcement is the fixed 48h gate in policy.go regardless
	// of this value.
	CancellationPolicy string

	Status      ExperienceStatus
	PublishedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

var validPolicies = map[string]bool{"": true, "24h": true, "48h": true, "72h": true, "1w": true}

func NewDraft(hostID, title, description, city, cuisine, policy string, start time.Time, durationMinutes int, price float64, capacity int, now time.Time) (*Experience, error) {
	hostID = strings.TrimSpace(hostID)
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	city = strings.TrimSpace(city)
	cuisine = strings.TrimSpace(cuisine)
	policy = strings.TrimSpace(policy)

	if hostID == "" {
		return nil, ErrValidation("host_id is required")
	}
	if title == "" || len(title) > 120 {
		return nil, ErrValidation("title is required and must be <= 120 chars")
	}
	if description == "" || len(description) > 4000 {
		return nil, ErrValidation("description is required and must be <= 4000 chars")
	}
	if city == "" || len(city) > 80 {
		return nil, ErrValidation("city is required and must be <= 80 chars")
	}
	if cuisine == "" || len(cuisine) > 80 {
		return nil, ErrValidation("cuisine is required and must be <= 80 chars")
	}
	if start.IsZero() {
		return nil, ErrValidation("start_time is required")
	}
	if durationMinutes <= 0 {
		return nil, ErrValidation("duration_minutes must be > 0")
	}
	if price < 0 {
		return nil, ErrValidation("price must be >= 0")
	}
	if capacity < 0 {
		return nil, ErrValidation("capacity must be >= 0")
	}
	if !validPolicies[policy] {
		return nil, ErrValidation("cancellation_policy must be one of: 24h, 48h, 72h, 1w")
	}

	return &Experience{
		ID:                 uuid.NewString(),
		HostID:             hostID,
		Title:              title,
		Description:        description,
		City:               city,
		Cuisine:            cuisine,
		StartTime:          start.UTC(),
		DurationMinutes:    durationMinutes,
		Price:              price,
		Capacity:           capacity,
		SpotsLeft:          capacity,
		CancellationPolicy: policy,
		Status:             StatusDraft,
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}, nil
}

func (e *Experience) HasStarted(now time.Time) bool {
	return !now.Before(e.StartTime)
}

func (e *Experience) Publish(now time.Time) error {
	if e.Status != StatusDraft {
		return ErrInvalidState("only a draft can be published")
	}
	if !e.StartTime.After(now) {
		return ErrValidation("cannot publish an experience that starts in the past")
	}
	t := now.UTC()
	e.Status = StatusPublished
	e.PublishedAt = &t
	e.UpdatedAt = t
	return nil
}

func (e *Experience) Unpublish(now time.Time) error {
	if e.Status != StatusPublished {
		return ErrInvalidState("experience must be published to unpublish")
	}
	e.Status = StatusDraft
	e.UpdatedAt = now.UTC()
	return nil
}

// ApplyUpdate mutates only the provided fields. This backs the host wizard:
// each step PATCHes its own subset and is validated here.
func (e *Experience) ApplyUpdate(title, description, city, cuisine, policy *string, start *time.Time, durationMinutes *int, price *float64, capacity *int, now time.Time) error {
	if e.Status == StatusCancelled {
		return ErrInvalidState("cancelled experience cannot be updated")
	}
	if e.HasStarted(now) {
		return ErrInvalidState("experience already started")
	}

	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" || len(v) > 120 {
			return ErrValidation("title must be non-empty and <= 120 chars")
		}
		e.Title = v
	}
	if description != nil {
		v := strings.TrimSpace(*description)
		if v == "" || len(v) > 4000 {
			return ErrValidation("description must be non-empty and <= 4000 chars")
		}
		e.Description = v
	}
	if city != nil {
		v := strings.TrimSpace(*city)
		if v == "" || len(v) > 80 {
			return ErrValidation("city must be non-empty and <= 80 chars")
		}
		e.City = v
	}
	if cuisine != nil {
		v := strings.TrimSpace(*cuisine)
		if v == "" || len(v) > 80 {
			return ErrValidation("cuisine must be non-empty and <= 80 chars")
		}
		e.Cuisine = v
	}
	if policy != nil {
		v := strings.TrimSpace(*policy)
		if !validPolicies[v] {
			return ErrValidation("cancellation_policy must be one of: 24h, 48h, 72h, 1w")
		}
		e.CancellationPolicy = v
	}
	if start != nil {
		if start.IsZero() {
			return ErrValidation("start_time must be a valid timestamp")
		}
		e.StartTime = start.UTC()
	}
	if durationMinutes != nil {
		if *durationMinutes <= 0 {
			return ErrValidation("duration_minutes must be > 0")
		}
		e.DurationMinutes = *durationMinutes
	}
	if price != nil {
		if *price < 0 {
			return ErrValidation("price must be >= 0")
		}
		e.Price = *price
	}
	if capacity != nil {
		if *capacity < 0 {
			return ErrValidation("capacity must be >= 0")
		}
		// Widening or narrowing capacity leaves SpotsLeft to the next
		// reconciliation run rather than guessing here.
		e.Capacity = *capacity
	}
	e.UpdatedAt = now.UTC()
	return nil
}
