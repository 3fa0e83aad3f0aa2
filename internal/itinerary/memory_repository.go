package itinerary

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu           sync.RWMutex
	trips        map[string]*Trip
	segments     map[string]*Segment
	reservations map[string]*Reservation
}

// NewInMemoryRepository creates a new in-memory itinerary repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips:        make(map[string]*Trip),
		segments:     make(map[string]*Segment),
		reservations: make(map[string]*Reservation),
	}
}

// AddTrip seeds a trip. Test helper.
func (r *InMemoryRepository) AddTrip(trip *Trip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *trip
	r.trips[trip.ID] = &cpy
}

// AddSegment seeds a segment. Test helper.
func (r *InMemoryRepository) AddSegment(segment *Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *segment
	r.segments[segment.ID] = &cpy
}

// AddReservation seeds a reservation. Test helper.
func (r *InMemoryRepository) AddReservation(reservation *Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *reservation
	r.reservations[reservation.ID] = &cpy
}

// GetTrip retrieves a trip by ID.
func (r *InMemoryRepository) GetTrip(_ context.Context, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// ListSegments retrieves all segments for a trip ordered by position.
func (r *InMemoryRepository) ListSegments(_ context.Context, tripID string) ([]Segment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var segments []Segment
	for _, s := range r.segments {
		if s.TripID == tripID {
			segments = append(segments, *s)
		}
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Order < segments[j].Order
	})

	return segments, nil
}

// ListReservations retrieves all reservations for a trip.
func (r *InMemoryRepository) ListReservations(_ context.Context, tripID string) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reservations []Reservation
	for _, res := range r.reservations {
		if res.TripID == tripID {
			reservations = append(reservations, *res)
		}
	}

	sort.Slice(reservations, func(i, j int) bool {
		si, sj := reservations[i].StartTime, reservations[j].StartTime
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		return si.Before(*sj)
	})

	return reservations, nil
}

// CreateSegment creates a new segment.
func (r *InMemoryRepository) CreateSegment(_ context.Context, segment *Segment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *segment
	r.segments[segment.ID] = &cpy
	return nil
}

// CreateReservation creates a new reservation.
func (r *InMemoryRepository) CreateReservation(_ context.Context, reservation *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *reservation
	r.reservations[reservation.ID] = &cpy
	return nil
}

// UpdateTripDates moves a trip's start and end dates.
func (r *InMemoryRepository) UpdateTripDates(_ context.Context, tripID string, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[tripID]
	if !ok {
		return ErrTripNotFound
	}

	t.StartDate = start
	t.EndDate = end
	t.UpdatedAt = time.Now()
	return nil
}
