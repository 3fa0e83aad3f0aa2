package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// maxSlotSuggestions caps how many alternative slots are returned.
const maxSlotSuggestions = 3

// SuggestSlots proposes up to three free slots of the requested duration on
// a trip day. When a preferred start time is given, the candidate closest to
// it is labeled accordingly; the first free slot of the day is labeled
// "next available slot".
//
// Like CheckSlot, this is advisory: lookup failures yield an empty list, not
// an error.
func (s *Service) SuggestSlots(ctx context.Context, tripID string, day int, duration time.Duration, preferredStart string) ([]SlotSuggestion, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("trip_id", tripID).
			Msg("trip lookup failed, no slot suggestions")
		return nil, nil
	}

	reservations, err := s.repo.ListReservations(ctx, tripID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("trip_id", tripID).
			Msg("reservation lookup failed, no slot suggestions")
		return nil, nil
	}

	date := dayDate(trip.StartDate, day)
	slots := freeSlots(reservations, date, duration, s.dayStart, s.dayEnd)
	if len(slots) == 0 {
		return nil, nil
	}
	if len(slots) > maxSlotSuggestions {
		slots = slots[:maxSlotSuggestions]
	}

	suggestions := make([]SlotSuggestion, len(slots))
	for i, slot := range slots {
		suggestions[i] = SlotSuggestion{Start: slot, End: slot.Add(duration)}
	}

	// Rank by closeness to the preferred time when one is given.
	if preferred, ok := combineDayTime(date, preferredStart); ok && preferredStart != "" {
		closest := 0
		for i := 1; i < len(suggestions); i++ {
			if absDuration(suggestions[i].Start.Sub(preferred)) < absDuration(suggestions[closest].Start.Sub(preferred)) {
				closest = i
			}
		}
		suggestions[closest].Label = "close to your preferred time"
	}
	if suggestions[0].Label == "" {
		suggestions[0].Label = "next available slot"
	}

	return suggestions, nil
}

// freeSlots computes candidate start times of at least the given duration
// between a day's reservations, bounded by the schedulable day window.
func freeSlots(reservations []itinerary.Reservation, date time.Time, duration time.Duration, dayStart, dayEnd string) []time.Time {
	windowStart, _ := combineDayTime(date, dayStart)
	windowEnd, _ := combineDayTime(date, dayEnd)

	busy := reservationsOnDay(reservations, date)
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(*busy[j].StartTime)
	})

	var slots []time.Time
	cursor := windowStart

	for _, res := range busy {
		resStart, resEnd := reservationInterval(res)
		if resStart.Sub(cursor) >= duration {
			slots = append(slots, cursor)
		}
		if resEnd.After(cursor) {
			cursor = resEnd
		}
	}

	if windowEnd.Sub(cursor) >= duration {
		slots = append(slots, cursor)
	}

	return slots
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
