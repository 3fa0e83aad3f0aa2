package flightimport

import (
	"strings"
	"time"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// DefaultMinMatchScore is the minimum total score for a segment match to be
// accepted.
const DefaultMinMatchScore = 60

// Sub-score caps.
const (
	maxDateScore     = 40
	maxLocationScore = 40
	maxTypeScore     = 20
)

// nearMissWindow is how far outside a segment's window a span may fall and
// still earn date-proximity points.
const nearMissWindow = 24 * time.Hour

// travelKeywords mark a segment type as travel-related.
var travelKeywords = []string{"flight", "drive", "train", "ferry", "travel"}

// MatchSegments scores a travel span against every candidate segment and
// returns the best match with a total of at least minScore, or nil when no
// candidate qualifies. Pass a non-positive minScore to use
// DefaultMinMatchScore.
//
// On an exact tie the first candidate in input order wins. That mirrors the
// behavior users already rely on; see DESIGN.md for the tie-break decision.
func MatchSegments(span TravelSpan, segments []itinerary.Segment, minScore int) *SegmentMatch {
	if minScore <= 0 {
		minScore = DefaultMinMatchScore
	}

	var best *SegmentMatch
	for i := range segments {
		match := scoreSegment(span, &segments[i])
		if best == nil || match.Score > best.Score {
			best = &match
		}
	}

	if best == nil || best.Score < minScore {
		return nil
	}
	return best
}

// scoreSegment computes the structured score for one (span, segment) pair.
func scoreSegment(span TravelSpan, seg *itinerary.Segment) SegmentMatch {
	breakdown := ScoreBreakdown{
		DateOverlap:  dateOverlapScore(span, seg),
		Location:     locationScore(span, seg),
		TypeAffinity: typeAffinityScore(seg.Type),
	}

	return SegmentMatch{
		SegmentID: seg.ID,
		Score:     breakdown.Total(),
		Breakdown: breakdown,
		Reason:    matchReason(breakdown),
	}
}

// dateOverlapScore awards up to 40 points for temporal fit: full containment
// beats partial overlap beats a near miss within 24 hours. Segments without
// scheduled dates score zero.
func dateOverlapScore(span TravelSpan, seg *itinerary.Segment) int {
	if !seg.HasDates() {
		return 0
	}
	segStart, segEnd := *seg.StartDate, *seg.EndDate

	switch {
	case !span.Start.Before(segStart) && !span.End.After(segEnd):
		return maxDateScore
	case span.Start.Before(segEnd) && span.End.After(segStart):
		return 30
	case !span.End.After(segStart) && segStart.Sub(span.End) <= nearMissWindow:
		return 20
	case !span.Start.Before(segEnd) && span.Start.Sub(segEnd) <= nearMissWindow:
		return 20
	default:
		return 0
	}
}

// locationScore awards 20 points per endpoint whose location matches the
// segment's. The two endpoint checks are independent.
func locationScore(span TravelSpan, seg *itinerary.Segment) int {
	score := 0
	if locationsMatch(span.StartLocation, seg.StartLocation) {
		score += maxLocationScore / 2
	}
	if locationsMatch(span.EndLocation, seg.EndLocation) {
		score += maxLocationScore / 2
	}
	return score
}

// typeAffinityScore awards full points to travel-typed segments and half to
// everything else.
func typeAffinityScore(segmentType string) int {
	if isTravelType(segmentType) {
		return maxTypeScore
	}
	return maxTypeScore / 2
}

// isTravelType reports whether a segment type label names a travel activity.
func isTravelType(segmentType string) bool {
	lower := strings.ToLower(segmentType)
	for _, kw := range travelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// matchReason composes a diagnostic string from the strong sub-scores.
func matchReason(b ScoreBreakdown) string {
	var parts []string
	if b.DateOverlap >= 30 {
		parts = append(parts, "dates align")
	}
	switch {
	case b.Location >= 30:
		parts = append(parts, "locations match")
	case b.Location >= 20:
		parts = append(parts, "partial location match")
	}
	if b.TypeAffinity == maxTypeScore {
		parts = append(parts, "travel segment")
	}

	if len(parts) == 0 {
		return "basic match"
	}
	return strings.Join(parts, ", ")
}
