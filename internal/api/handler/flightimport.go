package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/api/models"
	"github.com/tripforge/tripforge/internal/api/response"
	"github.com/tripforge/tripforge/internal/flightimport"
	"github.com/tripforge/tripforge/internal/itinerary"
)

// FlightImportHandler handles flight import endpoints.
type FlightImportHandler struct {
	svc    *flightimport.Service
	logger zerolog.Logger
}

// NewFlightImportHandler creates a new FlightImportHandler.
func NewFlightImportHandler(svc *flightimport.Service, logger zerolog.Logger) *FlightImportHandler {
	return &FlightImportHandler{svc: svc, logger: logger}
}

// ImportFlights handles POST /v1/trips/{tripId}/flights/import - reconcile
// parsed flight legs with the trip's itinerary.
func (h *FlightImportHandler) ImportFlights(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var input models.FlightImportRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(input.Flights) == 0 {
		response.BadRequest(w, r, "at least one flight is required", []models.FieldError{
			{Field: "flights", Message: "must not be empty", Code: "required"},
		})
		return
	}

	legs := make([]flightimport.FlightLeg, len(input.Flights))
	for i, f := range input.Flights {
		legs[i] = toDomainLeg(f)
	}

	plan, err := h.svc.ImportFlights(r.Context(), tripID, legs)
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrTripNotFound):
			response.NotFound(w, r, "trip not found")
		case errors.Is(err, flightimport.ErrMissingTripDates):
			response.Conflict(w, r, "trip has no dates set; flights cannot be categorized")
		default:
			h.logger.Error().Err(err).Str("trip_id", tripID).Msg("flight import failed")
			response.InternalError(w, r, "flight import failed")
		}
		return
	}

	if input.Apply {
		if err := h.svc.Apply(r.Context(), tripID, plan); err != nil {
			h.logger.Error().Err(err).Str("trip_id", tripID).Msg("applying import plan failed")
			response.InternalError(w, r, "applying import plan failed")
			return
		}
	}

	response.JSON(w, r, http.StatusOK, toImportResponse(plan))
}

// toDomainLeg converts a request leg to its domain form.
func toDomainLeg(f models.FlightLeg) flightimport.FlightLeg {
	return flightimport.FlightLeg{
		Carrier:          f.Carrier,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		DepartureCity:    f.DepartureCity,
		ArrivalAirport:   f.ArrivalAirport,
		ArrivalCity:      f.ArrivalCity,
		DepartureDate:    f.DepartureDate,
		DepartureTime:    f.DepartureTime,
		ArrivalDate:      f.ArrivalDate,
		ArrivalTime:      f.ArrivalTime,
		Cabin:            f.Cabin,
		Seat:             f.Seat,
		OperatedBy:       f.OperatedBy,
	}
}

// toAPILeg converts a domain leg back to its response form.
func toAPILeg(l flightimport.FlightLeg) models.FlightLeg {
	return models.FlightLeg{
		Carrier:          l.Carrier,
		FlightNumber:     l.FlightNumber,
		DepartureAirport: l.DepartureAirport,
		DepartureCity:    l.DepartureCity,
		ArrivalAirport:   l.ArrivalAirport,
		ArrivalCity:      l.ArrivalCity,
		DepartureDate:    l.DepartureDate,
		DepartureTime:    l.DepartureTime,
		ArrivalDate:      l.ArrivalDate,
		ArrivalTime:      l.ArrivalTime,
		Cabin:            l.Cabin,
		Seat:             l.Seat,
		OperatedBy:       l.OperatedBy,
	}
}

// toImportResponse maps an assignment plan to the API response.
func toImportResponse(plan *flightimport.Plan) models.FlightImportResponse {
	out := models.FlightImportResponse{
		Assignments: make([]models.FlightAssignment, 0, len(plan.Assignments)),
	}

	if plan.Extension != nil {
		out.Extension = &models.TripDateExtension{
			Start: models.Timestamp(plan.Extension.Start),
			End:   models.Timestamp(plan.Extension.End),
		}
	}

	for _, ca := range plan.Assignments {
		a := models.FlightAssignment{
			Flights: make([]models.FlightLeg, len(ca.Cluster.Legs)),
		}
		for i, leg := range ca.Cluster.Legs {
			a.Flights[i] = toAPILeg(leg)
		}

		if ca.Err != nil {
			a.Error = toFieldError(ca.Err)
			out.Assignments = append(out.Assignments, a)
			continue
		}

		a.Category = string(ca.Assignment.Category)
		a.CreateSegment = ca.Assignment.CreateSegment
		a.SegmentID = ca.Assignment.SegmentID
		a.Reason = ca.Assignment.Reason

		if ca.Suggestion != nil {
			a.Suggestion = &models.SegmentSuggestion{
				Name:          ca.Suggestion.Name,
				StartLocation: ca.Suggestion.StartLocation,
				EndLocation:   ca.Suggestion.EndLocation,
				Start:         models.Timestamp(ca.Suggestion.Start),
				End:           models.Timestamp(ca.Suggestion.End),
				Type:          ca.Suggestion.Type,
				Reason:        ca.Suggestion.Reason,
			}
		}

		out.Assignments = append(out.Assignments, a)
	}

	return out
}

// toFieldError converts a per-cluster data error to a response field error.
func toFieldError(err error) *models.FieldError {
	var dataErr *flightimport.DataError
	if errors.As(err, &dataErr) {
		return &models.FieldError{
			Field:   dataErr.Field,
			Message: dataErr.Error(),
			Code:    "invalid_value",
		}
	}
	return &models.FieldError{Message: err.Error()}
}
