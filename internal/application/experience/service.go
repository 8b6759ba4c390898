package experience

import (
	"strings"
	"time"
)

type Service struct {
	repo     ExperienceRepo
	bookings BookingReader
	cache    Cache
	clock    Clock

	ttlDetails time.Duration
	ttlStats   time.Duration
}

func New(
	repo ExperienceRepo,
	bookings BookingReader,
	clock Clock,
	cache Cache,
	ttlDetails, ttlStats time.Duration,
) *Service {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	if ttlStats == 0 {
		ttlStats = 30 * time.Second
	}

	return &Service{
		repo:       repo,
		bookings:   bookings,
		cache:      cache,
		clock:      clock,
		ttlDetails: ttlDetails,
		ttlStats:   ttlStats,
	}
}

func isAdmin(role string) bool { return role == "admin" }

// Any authenticated user can host. Admins can manage anyone's experiences.
func canHost(role string) bool {
	return role == "user" || role == "host" || role == "admin"
}

func canManage(actorID, actorRole, hostID string) bool {
	if isAdmin(actorRole) {
		return true
	}
	return strings.TrimSpace(actorID) != "" && actorID == hostID
}
