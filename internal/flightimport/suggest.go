package flightimport

import (
	"fmt"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// SuggestedSegmentType is the type label applied to segments proposed for
// imported flights.
const SuggestedSegmentType = "Flight"

// SuggestSegment derives a proposal for a brand-new segment from a cluster
// that failed to match any existing one. The itinerary's origin city (start
// location of the lowest-order segment) drives the naming: journeys back to
// the origin become "Return from X", journeys out of it "Travel to Y", and
// everything else "X to Y".
func SuggestSegment(cluster FlightCluster, segments []itinerary.Segment) SegmentSuggestion {
	startCity := cityName(cluster.StartLocation)
	endCity := cityName(cluster.EndLocation)
	originCity := originCityOf(segments)

	var name, reason string
	switch {
	case originCity != "" && endCity == originCity:
		name = fmt.Sprintf("Return from %s", startCity)
		reason = "return journey detected"
	case originCity != "" && startCity == originCity:
		name = fmt.Sprintf("Travel to %s", endCity)
		reason = "outbound journey from origin"
	default:
		name = fmt.Sprintf("%s to %s", startCity, endCity)
		reason = "distinct travel leg"
	}

	if n := len(cluster.Legs); n > 1 {
		reason = fmt.Sprintf("%s, %d connecting flights", reason, n)
	}

	return SegmentSuggestion{
		Name:          name,
		StartLocation: cluster.StartLocation,
		EndLocation:   cluster.EndLocation,
		Start:         cluster.Start,
		End:           cluster.End,
		Type:          SuggestedSegmentType,
		Reason:        reason,
		Cluster:       cluster,
	}
}

// originCityOf returns the trip's origin city: the start location of the
// segment with the lowest order index, reduced to a bare city name. Empty
// when the itinerary has no segments.
func originCityOf(segments []itinerary.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	origin := &segments[0]
	for i := range segments[1:] {
		if segments[i+1].Order < origin.Order {
			origin = &segments[i+1]
		}
	}
	return cityName(origin.StartLocation)
}
