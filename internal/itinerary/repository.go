package itinerary

import (
	"context"
	"time"
)

// Repository defines the interface for itinerary data persistence.
type Repository interface {
	// GetTrip retrieves a trip by ID.
	// Returns ErrTripNotFound if the trip doesn't exist.
	GetTrip(ctx context.Context, tripID string) (*Trip, error)

	// ListSegments retrieves all segments for a trip ordered by their
	// itinerary position.
	ListSegments(ctx context.Context, tripID string) ([]Segment, error)

	// ListReservations retrieves all reservations for a trip.
	ListReservations(ctx context.Context, tripID string) ([]Reservation, error)

	// CreateSegment creates a new segment.
	CreateSegment(ctx context.Context, segment *Segment) error

	// CreateReservation creates a new reservation attached to a segment.
	CreateReservation(ctx context.Context, reservation *Reservation) error

	// UpdateTripDates moves a trip's start and end dates.
	// Returns ErrTripNotFound if the trip doesn't exist.
	UpdateTripDates(ctx context.Context, tripID string, start, end time.Time) error
}
