// Package itinerary provides the trip timeline data model and its persistence.
package itinerary

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrSegmentNotFound = errors.New("segment not found")
)

// Trip represents a planned trip with its overall date window.
type Trip struct {
	ID        string
	UserID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Segment is a named slice of a trip's itinerary (e.g. "Tokyo", "Travel day
// to Kyoto") that reservations attach to. StartDate and EndDate are nil for
// segments the user has not scheduled yet.
type Segment struct {
	ID            string
	TripID        string
	Name          string
	StartLocation string
	EndLocation   string
	StartDate     *time.Time
	EndDate       *time.Time
	Order         int
	Type          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reservation is a booked item on the timeline (hotel, restaurant, activity).
// EndTime is nil for reservations without a known duration. Location is nil
// when the venue has not been geocoded.
type Reservation struct {
	ID        string
	TripID    string
	SegmentID string
	Name      string
	Vendor    string
	StartTime *time.Time
	EndTime   *time.Time
	Location  *Point
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// HasDates reports whether the segment has both endpoints scheduled.
func (s *Segment) HasDates() bool {
	return s.StartDate != nil && s.EndDate != nil
}
