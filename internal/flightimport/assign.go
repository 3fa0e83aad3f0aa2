package flightimport

import (
	"errors"
	"fmt"
	"time"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// ErrMissingTripDates is returned when the trip has no usable start or end
// date. Nothing can be categorized without the trip window, so this is fatal
// for the whole batch.
var ErrMissingTripDates = errors.New("trip start and end dates are required for flight assignment")

// BuildPlan runs the full assignment pass for a batch of clusters: it
// computes the minimal trip date extension up front, then categorizes and
// assigns every cluster against the same effective window.
//
// Clusters with unusable dates get a per-item DataError on their
// ClusterAssignment instead of aborting the batch.
func BuildPlan(clusters []FlightCluster, dates TripDates, segments []itinerary.Segment, minScore int) (*Plan, error) {
	if dates.Start.IsZero() || dates.End.IsZero() {
		return nil, ErrMissingTripDates
	}

	plan := &Plan{Extension: computeExtension(dates, clusters)}

	// All flights in the batch are categorized against the extended window,
	// not the original one.
	effective := dates
	if plan.Extension != nil {
		effective = TripDates{Start: plan.Extension.Start, End: plan.Extension.End}
	}

	for _, cluster := range clusters {
		ca := ClusterAssignment{Cluster: cluster}

		if err := validateClusterDates(cluster); err != nil {
			ca.Err = err
			plan.Assignments = append(plan.Assignments, ca)
			continue
		}

		ca.Assignment = assignCluster(cluster, effective, segments, minScore)
		if ca.Assignment.CreateSegment {
			suggestion := SuggestSegment(cluster, segments)
			ca.Suggestion = &suggestion
		}

		plan.Assignments = append(plan.Assignments, ca)
	}

	return plan, nil
}

// computeExtension returns the minimal widened window containing the trip
// window and every cluster, or nil when no cluster falls outside it.
// Clusters with unusable dates are ignored here; they surface as per-item
// errors during assignment.
func computeExtension(dates TripDates, clusters []FlightCluster) *TripDateExtension {
	start, end := dates.Start, dates.End
	for _, c := range clusters {
		if c.Start.IsZero() || c.End.IsZero() {
			continue
		}
		if c.Start.Before(start) {
			start = c.Start
		}
		if c.End.After(end) {
			end = c.End
		}
	}

	if start.Equal(dates.Start) && end.Equal(dates.End) {
		return nil
	}
	return &TripDateExtension{Start: start, End: end}
}

// validateClusterDates reports which date field made a cluster unusable.
// Misdating a flight corrupts the trip window, so this degrades to a
// per-item error rather than a silent default.
func validateClusterDates(cluster FlightCluster) error {
	if cluster.Start.IsZero() {
		return &DataError{Field: "departureDate", Value: cluster.Legs[0].DepartureDate}
	}
	if cluster.End.IsZero() {
		last := cluster.Legs[len(cluster.Legs)-1]
		return &DataError{Field: "arrivalDate", Value: last.ArrivalDate}
	}
	return nil
}

// Categorize places a flight interval relative to the trip window using
// calendar-day granularity. A journey touching the start day at either end
// is outbound, one touching the end day is a return, everything else is
// in-trip. Outbound wins when a single journey spans the whole window.
//
// Overnight boundary flights make the either-end check necessary: a return
// flight leaving the last evening lands the morning after the trip window
// it extended, and the outbound flight to a trip often departs the day
// before the window opens.
func Categorize(departure, arrival time.Time, dates TripDates) (FlightCategory, error) {
	if departure.IsZero() {
		return "", &DataError{Field: "departure"}
	}
	if arrival.IsZero() {
		return "", &DataError{Field: "arrival"}
	}
	if dates.Start.IsZero() || dates.End.IsZero() {
		return "", ErrMissingTripDates
	}

	arrivalDay := toDay(arrival)
	departureDay := toDay(departure)
	startDay := toDay(dates.Start)
	endDay := toDay(dates.End)

	switch {
	case !arrivalDay.After(startDay) || !departureDay.After(startDay):
		return CategoryOutbound, nil
	case !departureDay.Before(endDay) || !arrivalDay.Before(endDay):
		return CategoryReturn, nil
	default:
		return CategoryInTrip, nil
	}
}

// toDay truncates an instant to its calendar date.
func toDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// assignCluster decides whether a cluster reuses an existing segment or
// needs a new one. Dates have already been validated.
func assignCluster(cluster FlightCluster, dates TripDates, segments []itinerary.Segment, minScore int) FlightAssignment {
	category, _ := Categorize(cluster.Start, cluster.End, dates)

	// A close travel segment wins regardless of category. Candidates are
	// restricted to travel-typed segments; the scoring itself is the shared
	// matcher.
	if match := matchTravelSegment(cluster.Span(), segments, minScore); match != nil {
		return FlightAssignment{
			Category:  category,
			SegmentID: match.SegmentID,
			Reason:    "assigned to closest travel segment",
		}
	}

	switch category {
	case CategoryOutbound:
		return FlightAssignment{
			Category:      category,
			CreateSegment: true,
			Reason:        "requires new segment before trip",
		}
	case CategoryReturn:
		return FlightAssignment{
			Category:      category,
			CreateSegment: true,
			Reason:        "requires new segment after trip",
		}
	default:
		return assignInTrip(cluster, segments)
	}
}

// matchTravelSegment runs the shared segment matcher over travel-typed
// candidates only.
func matchTravelSegment(span TravelSpan, segments []itinerary.Segment, minScore int) *SegmentMatch {
	var travel []itinerary.Segment
	for _, seg := range segments {
		if isTravelType(seg.Type) {
			travel = append(travel, seg)
		}
	}
	return MatchSegments(span, travel, minScore)
}

// assignInTrip attaches an in-trip cluster to the segment that ends latest
// at or before the flight's departure, or asks for a new segment when none
// exists.
func assignInTrip(cluster FlightCluster, segments []itinerary.Segment) FlightAssignment {
	var best *itinerary.Segment
	for i := range segments {
		seg := &segments[i]
		if seg.EndDate == nil || seg.EndDate.After(cluster.Start) {
			continue
		}
		if best == nil || seg.EndDate.After(*best.EndDate) {
			best = seg
		}
	}

	if best == nil {
		return FlightAssignment{
			Category:      CategoryInTrip,
			CreateSegment: true,
			Reason:        "no segment found before flight departure",
		}
	}

	return FlightAssignment{
		Category:  CategoryInTrip,
		SegmentID: best.ID,
		Reason:    fmt.Sprintf("assigned to segment ending before departure (%s)", best.Name),
	}
}
