package booking

import "sync"

type Service struct {
	repo        BookingRepo
	experiences ExperienceReader
	notifier    Notifier
	cache       CacheInvalidator
	clock       Clock

	// one in-flight cancellation per booking id
	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(repo BookingRepo, experiences ExperienceReader, notifier Notifier, cache CacheInvalidator, clock Clock) *Service {
	return &Service{
		repo:        repo,
		experiences: experiences,
		notifier:    notifier,
		cache:       cache,
		clock:       clock,
		inflight:    make(map[string]struct{}),
	}
}

// tryAcquire reserves the cancellation slot for a booking id. It returns
// false when a cancellation for the same id is already in flight.
func (s *Service) tryAcquire(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[bookingID]; busy {
		return false
	}
	s.inflight[bookingID] = struct{}{}
	return true
}

func (s *Service) release(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, bookingID)
}
