package flightimport

import (
	"sort"
	"strings"
	"time"
)

// DefaultMaxGapHours is the largest layover between consecutive legs that
// still counts as the same journey.
const DefaultMaxGapHours = 48.0

// defaultTimeOfDay is used when a leg's time string cannot be parsed.
// Clustering must stay total over its input, so malformed times degrade
// instead of failing the batch.
const defaultTimeOfDay = "12:00"

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
}

// ClusterLegs groups flight legs into travel clusters by time proximity.
// Legs are sorted by departure instant; a gap above maxGapHours between one
// leg's arrival and the next leg's departure starts a new cluster. Pass a
// non-positive maxGapHours to use DefaultMaxGapHours.
//
// Every input leg lands in exactly one cluster and clusters are returned in
// chronological order.
func ClusterLegs(legs []FlightLeg, maxGapHours float64) []FlightCluster {
	if len(legs) == 0 {
		return nil
	}
	if maxGapHours <= 0 {
		maxGapHours = DefaultMaxGapHours
	}

	sorted := make([]FlightLeg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return legDeparture(sorted[i]).Before(legDeparture(sorted[j]))
	})

	var clusters []FlightCluster
	current := []FlightLeg{sorted[0]}
	currentEnd := legArrival(sorted[0])

	for _, leg := range sorted[1:] {
		gap := legDeparture(leg).Sub(currentEnd).Hours()
		if gap <= maxGapHours {
			current = append(current, leg)
			if arr := legArrival(leg); arr.After(currentEnd) {
				currentEnd = arr
			}
		} else {
			clusters = append(clusters, buildCluster(current))
			current = []FlightLeg{leg}
			currentEnd = legArrival(leg)
		}
	}
	clusters = append(clusters, buildCluster(current))

	return clusters
}

func buildCluster(legs []FlightLeg) FlightCluster {
	first := legs[0]
	last := legs[len(legs)-1]
	return FlightCluster{
		Legs:          legs,
		Start:         legDeparture(first),
		End:           legArrival(last),
		StartLocation: first.DepartureLocation(),
		EndLocation:   last.ArrivalLocation(),
	}
}

// legDeparture combines a leg's departure date and time into an instant.
func legDeparture(leg FlightLeg) time.Time {
	return combineDateTime(leg.DepartureDate, leg.DepartureTime)
}

// legArrival combines a leg's arrival date and time into an instant.
func legArrival(leg FlightLeg) time.Time {
	return combineDateTime(leg.ArrivalDate, leg.ArrivalTime)
}

// combineDateTime builds an instant from separate local date and time-of-day
// strings. Unparseable times fall back to defaultTimeOfDay; an unparseable
// date yields the zero time, which downstream categorization treats as a
// data-validity error.
func combineDateTime(dateStr, timeStr string) time.Time {
	date, ok := parseDate(dateStr)
	if !ok {
		return time.Time{}
	}

	hour, minute, ok := parseTimeOfDay(timeStr)
	if !ok {
		hour, minute, _ = parseTimeOfDay(defaultTimeOfDay)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTimeOfDay normalizes a time string to 24-hour hour and minute.
// Accepts both 24-hour and 12-hour "h:mm AM/PM" forms.
func parseTimeOfDay(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}
