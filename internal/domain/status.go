package domain

type ExperienceStatus string

const (
	StatusDraft     ExperienceStatus = "draft"
	StatusPublished ExperienceStatus = "published"
	StatusCancelled ExperienceStatus = "cancelled"
)

func (s ExperienceStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusCancelled
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}
