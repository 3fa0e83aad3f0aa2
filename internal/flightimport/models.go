// Package flightimport reconciles imported flight bookings against an
// existing trip itinerary. It groups raw flight legs into travel clusters,
// matches clusters to existing segments, proposes new segments where no
// acceptable match exists, and keeps the trip's date window consistent.
//
// Everything in this package is pure computation over in-memory snapshots:
// segment lists are never mutated, and all decisions are returned as plain
// values for the caller to apply.
package flightimport

import (
	"fmt"
	"time"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// FlightLeg is one booked flight segment as produced by the parsing
// pipeline. Dates and times arrive as separate local strings and are only
// combined into instants during clustering.
type FlightLeg struct {
	Carrier          string
	FlightNumber     string
	DepartureAirport string
	DepartureCity    string
	ArrivalAirport   string
	ArrivalCity      string
	DepartureDate    string // "2006-01-02"
	DepartureTime    string // "15:04" or "3:04 PM"
	ArrivalDate      string
	ArrivalTime      string
	Cabin            string
	Seat             string
	OperatedBy       string
}

// DepartureLocation returns a display location for the leg's departure.
func (l FlightLeg) DepartureLocation() string {
	return formatLocation(l.DepartureCity, l.DepartureAirport)
}

// ArrivalLocation returns a display location for the leg's arrival.
func (l FlightLeg) ArrivalLocation() string {
	return formatLocation(l.ArrivalCity, l.ArrivalAirport)
}

func formatLocation(city, airport string) string {
	switch {
	case city != "" && airport != "":
		return fmt.Sprintf("%s (%s)", city, airport)
	case city != "":
		return city
	default:
		return airport
	}
}

// FlightCluster is an ordered, non-empty run of legs connected by layover
// gaps below the clustering threshold. It represents one continuous journey.
type FlightCluster struct {
	Legs          []FlightLeg
	Start         time.Time
	End           time.Time
	StartLocation string
	EndLocation   string
}

// Span returns the cluster's overall travel interval and endpoints for
// segment matching.
func (c FlightCluster) Span() TravelSpan {
	return TravelSpan{
		Start:         c.Start,
		End:           c.End,
		StartLocation: c.StartLocation,
		EndLocation:   c.EndLocation,
	}
}

// TravelSpan is any (start, end) interval with named endpoints. Clusters
// produce one, but single bookings can be matched the same way.
type TravelSpan struct {
	Start         time.Time
	End           time.Time
	StartLocation string
	EndLocation   string
}

// ScoreBreakdown keeps the match score explainable: the three sub-scores are
// reported alongside the total and never collapsed into a bare integer.
type ScoreBreakdown struct {
	DateOverlap  int // 0-40
	Location     int // 0-40
	TypeAffinity int // 0-20
}

// Total sums the sub-scores.
func (b ScoreBreakdown) Total() int {
	return b.DateOverlap + b.Location + b.TypeAffinity
}

// SegmentMatch is the matcher's verdict for one (span, segment) pair.
type SegmentMatch struct {
	SegmentID string
	Score     int
	Breakdown ScoreBreakdown
	Reason    string
}

// SegmentSuggestion is a proposed new segment for a cluster that failed to
// match any existing one. It stays ephemeral until the caller turns it into
// a real segment.
type SegmentSuggestion struct {
	Name          string
	StartLocation string
	EndLocation   string
	Start         time.Time
	End           time.Time
	Type          string
	Reason        string
	Cluster       FlightCluster
}

// FlightCategory places a flight relative to the trip's date window.
type FlightCategory string

const (
	// CategoryOutbound is a flight arriving on or before the trip start.
	CategoryOutbound FlightCategory = "outbound"
	// CategoryInTrip is a flight falling strictly inside the trip window.
	CategoryInTrip FlightCategory = "in-trip"
	// CategoryReturn is a flight departing on or after the trip end.
	CategoryReturn FlightCategory = "return"
)

// FlightAssignment is the final decision for one cluster: which category it
// falls in and whether it reuses an existing segment or needs a new one.
type FlightAssignment struct {
	Category      FlightCategory
	CreateSegment bool
	SegmentID     string // set when reusing an existing segment
	Reason        string
}

// TripDates is a trip's current [start, end] window.
type TripDates struct {
	Start time.Time
	End   time.Time
}

// TripDateExtension is the minimal widened window that contains the original
// trip window and every imported flight.
type TripDateExtension struct {
	Start time.Time
	End   time.Time
}

// ClusterAssignment pairs a cluster with its assignment outcome. Err is set
// when the cluster carried unusable dates; the rest of the batch still
// proceeds.
type ClusterAssignment struct {
	Cluster    FlightCluster
	Assignment FlightAssignment
	Suggestion *SegmentSuggestion
	Err        error
}

// Plan is the outcome of one assignment run over a batch of clusters.
type Plan struct {
	Assignments []ClusterAssignment
	Extension   *TripDateExtension
}

// DataError reports an unparseable or missing value on a field that cannot
// be silently defaulted.
type DataError struct {
	Field string
	Value string
}

func (e *DataError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("missing value for %s", e.Field)
	}
	return fmt.Sprintf("invalid value for %s: %q", e.Field, e.Value)
}

// segmentByID finds a segment in a snapshot. Returns nil when absent.
func segmentByID(segments []itinerary.Segment, id string) *itinerary.Segment {
	for i := range segments {
		if segments[i].ID == id {
			return &segments[i]
		}
	}
	return nil
}
