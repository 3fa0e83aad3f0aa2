package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/itinerary"
	"github.com/tripforge/tripforge/internal/routing"
)

// defaultReservationDuration is assumed for reservations without an end time.
const defaultReservationDuration = time.Hour

var timeOfDayLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
}

// Router estimates travel time between two points for a transport mode.
// Satisfied by *routing.Service; tests substitute deterministic fakes.
type Router interface {
	GetRoute(ctx context.Context, req routing.RouteRequest) (*routing.RouteResponse, error)
}

// ServiceConfig holds configuration for the schedule service.
type ServiceConfig struct {
	// Repo is the itinerary store.
	Repo itinerary.Repository

	// Router is the travel-time collaborator (optional; travel-time checks
	// are skipped without it).
	Router Router

	// Logger for service operations.
	Logger zerolog.Logger

	// DayStart and DayEnd bound the schedulable window of a day for slot
	// suggestions (defaults: 08:00 and 22:00).
	DayStart string
	DayEnd   string
}

// Service validates proposed slots and suggests alternatives. All of its
// checks are advisory: a missing trip or an unavailable routing provider
// degrades to "no conflict found" rather than blocking reservation creation.
type Service struct {
	repo     itinerary.Repository
	router   Router
	logger   zerolog.Logger
	dayStart string
	dayEnd   string
}

// NewService creates a new schedule service.
func NewService(cfg ServiceConfig) *Service {
	dayStart := cfg.DayStart
	if dayStart == "" {
		dayStart = "08:00"
	}
	dayEnd := cfg.DayEnd
	if dayEnd == "" {
		dayEnd = "22:00"
	}

	return &Service{
		repo:     cfg.Repo,
		router:   cfg.Router,
		logger:   cfg.Logger,
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// CheckSlot validates a proposed slot against the day's reservations.
func (s *Service) CheckSlot(ctx context.Context, req SlotRequest) (*TimeConflict, error) {
	result := &TimeConflict{}

	trip, err := s.repo.GetTrip(ctx, req.TripID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("trip_id", req.TripID).
			Msg("trip lookup failed, skipping conflict check")
		return result, nil
	}

	day := dayDate(trip.StartDate, req.Day)

	proposedStart, ok := combineDayTime(day, req.StartTime)
	if !ok {
		return nil, fmt.Errorf("invalid start time %q", req.StartTime)
	}
	proposedEnd, ok := combineDayTime(day, req.EndTime)
	if !ok {
		return nil, fmt.Errorf("invalid end time %q", req.EndTime)
	}

	reservations, err := s.repo.ListReservations(ctx, req.TripID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("trip_id", req.TripID).
			Msg("reservation lookup failed, skipping conflict check")
		return result, nil
	}

	sameDay := reservationsOnDay(reservations, day)

	for _, res := range sameDay {
		resStart, resEnd := reservationInterval(res)
		if proposedStart.Before(resEnd) && proposedEnd.After(resStart) {
			result.Overlapping = append(result.Overlapping, res)
		}
	}

	if req.Location != nil {
		result.TravelTimeIssues = s.checkTravelTimes(ctx, req, sameDay, proposedStart, proposedEnd)
	}

	result.HasConflict = len(result.Overlapping) > 0 || len(result.TravelTimeIssues) > 0
	return result, nil
}

// checkTravelTimes verifies feasibility against the nearest preceding and
// following located reservations. The two checks are independent round trips
// to the routing collaborator and run concurrently.
func (s *Service) checkTravelTimes(ctx context.Context, req SlotRequest, sameDay []itinerary.Reservation, proposedStart, proposedEnd time.Time) []TravelTimeIssue {
	if s.router == nil {
		return nil
	}

	var (
		prev *itinerary.Reservation
		next *itinerary.Reservation
	)
	for i := range sameDay {
		res := &sameDay[i]
		if res.Location == nil {
			continue
		}
		_, resEnd := reservationInterval(*res)
		if !resEnd.After(proposedStart) {
			if prev == nil {
				prev = res
			} else if _, prevEnd := reservationInterval(*prev); resEnd.After(prevEnd) {
				prev = res
			}
		}
		if !res.StartTime.Before(proposedEnd) {
			if next == nil || res.StartTime.Before(*next.StartTime) {
				next = res
			}
		}
	}

	var (
		mu     sync.Mutex
		issues []TravelTimeIssue
		wg     sync.WaitGroup
	)

	check := func(from, to *itinerary.Point, fromLabel, toLabel string, available time.Duration) {
		defer wg.Done()

		route, err := s.router.GetRoute(ctx, routing.RouteRequest{
			Origin:      routing.Coordinate{Lat: from.Lat, Lon: from.Lon},
			Destination: routing.Coordinate{Lat: to.Lat, Lon: to.Lon},
			Mode:        req.Mode,
		})
		if err != nil {
			// Advisory check: an unavailable provider never blocks the slot.
			s.logger.Warn().Err(err).Msg("travel time estimate unavailable, skipping check")
			return
		}

		requiredMin := int((route.Duration() + time.Minute - 1) / time.Minute)
		availableMin := int(available / time.Minute)
		if requiredMin <= availableMin {
			return
		}

		mu.Lock()
		issues = append(issues, TravelTimeIssue{
			From:             fromLabel,
			To:               toLabel,
			RequiredMinutes:  requiredMin,
			AvailableMinutes: availableMin,
			ShortfallMinutes: requiredMin - availableMin,
			Duration:         formatMinutes(requiredMin),
		})
		mu.Unlock()
	}

	if prev != nil {
		_, prevEnd := reservationInterval(*prev)
		wg.Add(1)
		go check(prev.Location, req.Location, reservationLabel(*prev), "proposed reservation", proposedStart.Sub(prevEnd))
	}
	if next != nil {
		wg.Add(1)
		go check(req.Location, next.Location, "proposed reservation", reservationLabel(*next), next.StartTime.Sub(proposedEnd))
	}
	wg.Wait()

	return issues
}

// dayDate resolves a 1-based day index to its calendar date.
func dayDate(tripStart time.Time, day int) time.Time {
	d := time.Date(tripStart.Year(), tripStart.Month(), tripStart.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, day-1)
}

// combineDayTime combines a calendar date with a time-of-day string.
func combineDayTime(day time.Time, timeStr string) (time.Time, bool) {
	timeStr = strings.TrimSpace(timeStr)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// reservationsOnDay filters to reservations starting on the given calendar
// date. Reservations without a start time cannot conflict.
func reservationsOnDay(reservations []itinerary.Reservation, day time.Time) []itinerary.Reservation {
	var out []itinerary.Reservation
	for _, res := range reservations {
		if res.StartTime == nil {
			continue
		}
		y1, m1, d1 := res.StartTime.Date()
		y2, m2, d2 := day.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			out = append(out, res)
		}
	}
	return out
}

// reservationInterval returns a reservation's occupied interval. A missing
// end time counts as one hour from the start.
func reservationInterval(res itinerary.Reservation) (start, end time.Time) {
	start = *res.StartTime
	if res.EndTime != nil {
		return start, *res.EndTime
	}
	return start, start.Add(defaultReservationDuration)
}

// reservationLabel names a reservation for conflict reports.
func reservationLabel(res itinerary.Reservation) string {
	if res.Name != "" {
		return res.Name
	}
	if res.Vendor != "" {
		return res.Vendor
	}
	return res.ID
}

// formatMinutes renders a duration in minutes as "1h 05m" or "25m".
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
