package flightimport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/itinerary"
)

// ServiceConfig holds configuration for the import service.
type ServiceConfig struct {
	// Repo is the itinerary store.
	Repo itinerary.Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// MaxGapHours is the clustering threshold (default: DefaultMaxGapHours).
	MaxGapHours float64

	// MinMatchScore is the matcher acceptance threshold
	// (default: DefaultMinMatchScore).
	MinMatchScore int
}

// Service runs flight imports against a persisted itinerary and applies the
// resulting decisions.
type Service struct {
	repo          itinerary.Repository
	logger        zerolog.Logger
	maxGapHours   float64
	minMatchScore int
}

// NewService creates a new flight import service.
func NewService(cfg ServiceConfig) *Service {
	maxGap := cfg.MaxGapHours
	if maxGap <= 0 {
		maxGap = DefaultMaxGapHours
	}

	minScore := cfg.MinMatchScore
	if minScore <= 0 {
		minScore = DefaultMinMatchScore
	}

	return &Service{
		repo:          cfg.Repo,
		logger:        cfg.Logger,
		maxGapHours:   maxGap,
		minMatchScore: minScore,
	}
}

// ImportFlights clusters the given legs and builds an assignment plan
// against the trip's current itinerary. The plan is a recommendation; call
// Apply to persist it.
func (s *Service) ImportFlights(ctx context.Context, tripID string, legs []FlightLeg) (*Plan, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading trip: %w", err)
	}

	segments, err := s.repo.ListSegments(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading segments: %w", err)
	}

	clusters := ClusterLegs(legs, s.maxGapHours)
	dates := TripDates{Start: trip.StartDate, End: trip.EndDate}

	plan, err := BuildPlan(clusters, dates, segments, s.minMatchScore)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, ca := range plan.Assignments {
		if ca.Err != nil {
			failed++
		}
	}

	s.logger.Info().
		Str("trip_id", tripID).
		Int("legs", len(legs)).
		Int("clusters", len(clusters)).
		Int("failed", failed).
		Bool("extended", plan.Extension != nil).
		Msg("flight import plan built")

	return plan, nil
}

// Apply persists a plan: it widens the trip window when the plan carries an
// extension and turns accepted suggestions into real segments. Reusing an
// existing segment needs no write here; the reservation attaches to it when
// the booking is saved.
func (s *Service) Apply(ctx context.Context, tripID string, plan *Plan) error {
	if plan.Extension != nil {
		if err := s.repo.UpdateTripDates(ctx, tripID, plan.Extension.Start, plan.Extension.End); err != nil {
			return fmt.Errorf("extending trip dates: %w", err)
		}
		s.logger.Info().
			Str("trip_id", tripID).
			Time("start", plan.Extension.Start).
			Time("end", plan.Extension.End).
			Msg("trip dates extended")
	}

	segments, err := s.repo.ListSegments(ctx, tripID)
	if err != nil {
		return fmt.Errorf("loading segments: %w", err)
	}
	nextOrder := 0
	for _, seg := range segments {
		if seg.Order >= nextOrder {
			nextOrder = seg.Order + 1
		}
	}

	for _, ca := range plan.Assignments {
		if ca.Err != nil || ca.Suggestion == nil {
			continue
		}

		now := time.Now()
		start := ca.Suggestion.Start
		end := ca.Suggestion.End
		segment := &itinerary.Segment{
			ID:            "seg_" + uuid.New().String()[:22],
			TripID:        tripID,
			Name:          ca.Suggestion.Name,
			StartLocation: ca.Suggestion.StartLocation,
			EndLocation:   ca.Suggestion.EndLocation,
			StartDate:     &start,
			EndDate:       &end,
			Order:         nextOrder,
			Type:          ca.Suggestion.Type,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		nextOrder++

		if err := s.repo.CreateSegment(ctx, segment); err != nil {
			return fmt.Errorf("creating segment %q: %w", segment.Name, err)
		}

		s.logger.Info().
			Str("trip_id", tripID).
			Str("segment_id", segment.ID).
			Str("name", segment.Name).
			Str("reason", ca.Suggestion.Reason).
			Msg("segment created from suggestion")
	}

	return nil
}
