package dto

import "time"

type CreateExperienceReq struct {
	Title              string    `json:"title" validate:"required,max=120"`
	Description        string    `json:"description" validate:"required,max=4000"`
	City               string    `json:"city" validate:"required,max=80"`
	Cuisine            string    `json:"cuisine" validate:"required,max=80"`
	CancellationPolicy string    `json:"cancellation_policy" validate:"omitempty,oneof=24h 48h 72h 1w"`
	StartTime          time.Time `json:"start_time" validate:"required"`
	DurationMinutes    int       `json:"duration_minutes" validate:"required,gt=0"`
	Price              float64   `json:"price" validate:"gte=0"`
	Capacity           int       `json:"capacity" validate:"required,gt=0"`
}

type UpdateExperienceReq struct {
	Title              *string    `json:"title,omitempty"`
	Description        *string    `json:"description,omitempty"`
	City               *string    `json:"city,omitempty"`
	Cuisine            *string    `json:"cuisine,omitempty"`
	CancellationPolicy *string    `json:"cancellation_policy,omitempty"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	DurationMinutes    *int       `json:"duration_minutes,omitempty"`
	Price              *float64   `json:"price,omitempty"`
	Capacity           *int       `json:"capacity,omitempty"`
}
