// Package schedule validates proposed reservation slots against a trip
// day's existing timeline: direct time overlaps and travel-time feasibility
// between neighboring reservations.
package schedule

import (
	"time"

	"github.com/tripforge/tripforge/internal/itinerary"
	"github.com/tripforge/tripforge/internal/routing"
)

// SlotRequest is a proposed reservation slot on one trip day.
type SlotRequest struct {
	TripID string

	// Day is the 1-based index of the trip day.
	Day int

	// StartTime and EndTime are local time-of-day strings ("15:04" or
	// "3:04 PM").
	StartTime string
	EndTime   string

	// Location is the proposed venue's coordinates; nil skips travel-time
	// checks.
	Location *itinerary.Point

	// Mode is the transport mode for travel-time checks.
	Mode routing.TravelMode
}

// TimeConflict is the validator's report for one proposed slot.
type TimeConflict struct {
	HasConflict bool
	// Overlapping lists the reservations whose interval overlaps the
	// proposal.
	Overlapping []itinerary.Reservation
	// TravelTimeIssues lists shortfalls against the nearest preceding and
	// following reservations with coordinates.
	TravelTimeIssues []TravelTimeIssue
}

// TravelTimeIssue records insufficient travel time between a neighboring
// reservation and the proposed slot.
type TravelTimeIssue struct {
	From             string
	To               string
	RequiredMinutes  int
	AvailableMinutes int
	ShortfallMinutes int
	// Duration is the required travel time in human-readable form.
	Duration string
}

// SlotSuggestion is one alternative free slot on a day.
type SlotSuggestion struct {
	Start time.Time
	End   time.Time
	Label string
}
