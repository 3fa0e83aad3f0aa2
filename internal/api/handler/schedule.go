package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/api/models"
	"github.com/tripforge/tripforge/internal/api/response"
	"github.com/tripforge/tripforge/internal/itinerary"
	"github.com/tripforge/tripforge/internal/routing"
	"github.com/tripforge/tripforge/internal/schedule"
)

// defaultSlotDuration is assumed when a slot query omits durationMinutes.
const defaultSlotDuration = time.Hour

// ScheduleHandler handles slot validation and suggestion endpoints.
type ScheduleHandler struct {
	svc    *schedule.Service
	logger zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(svc *schedule.Service, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

// ValidateSlot handles POST /v1/trips/{tripId}/schedule/validate - check a
// proposed reservation slot for conflicts.
func (h *ScheduleHandler) ValidateSlot(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var input models.SlotValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var fieldErrs []models.FieldError
	if input.Day < 1 {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "day", Message: "must be at least 1", Code: "gte"})
	}
	if input.StartTime == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "startTime", Message: "is required", Code: "required"})
	}
	if input.EndTime == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "endTime", Message: "is required", Code: "required"})
	}
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid slot request", fieldErrs)
		return
	}

	req := schedule.SlotRequest{
		TripID:    tripID,
		Day:       input.Day,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Mode:      routing.ParseMode(string(input.Mode)),
	}
	if input.Location != nil {
		req.Location = &itinerary.Point{Lat: input.Location.Lat, Lon: input.Location.Lon}
	}

	conflict, err := h.svc.CheckSlot(r.Context(), req)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.JSON(w, r, http.StatusOK, toValidationResponse(conflict))
}

// SuggestSlots handles GET /v1/trips/{tripId}/schedule/slots - propose free
// slots on a trip day.
func (h *ScheduleHandler) SuggestSlots(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil || day < 1 {
		response.BadRequest(w, r, "day must be a positive integer", []models.FieldError{
			{Field: "day", Message: "must be a positive integer", Code: "gte"},
		})
		return
	}

	duration := defaultSlotDuration
	if raw := r.URL.Query().Get("durationMinutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 1 {
			response.BadRequest(w, r, "durationMinutes must be a positive integer", []models.FieldError{
				{Field: "durationMinutes", Message: "must be a positive integer", Code: "gte"},
			})
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	preferred := r.URL.Query().Get("preferredStart")

	suggestions, err := h.svc.SuggestSlots(r.Context(), tripID, day, duration, preferred)
	if err != nil {
		h.logger.Error().Err(err).Str("trip_id", tripID).Msg("slot suggestion failed")
		response.InternalError(w, r, "slot suggestion failed")
		return
	}

	out := models.SlotSuggestionsResponse{Slots: make([]models.SlotSuggestion, len(suggestions))}
	for i, s := range suggestions {
		out.Slots[i] = models.SlotSuggestion{
			Start: models.Timestamp(s.Start),
			End:   models.Timestamp(s.End),
			Label: s.Label,
		}
	}
	response.JSON(w, r, http.StatusOK, out)
}

// toValidationResponse maps a conflict report to the API response.
func toValidationResponse(conflict *schedule.TimeConflict) models.SlotValidationResponse {
	out := models.SlotValidationResponse{HasConflict: conflict.HasConflict}

	for _, res := range conflict.Overlapping {
		cr := models.ConflictingReservation{
			ID:   res.ID,
			Name: res.Name,
		}
		if res.StartTime != nil {
			cr.Start = models.Timestamp(*res.StartTime)
		}
		if res.EndTime != nil {
			end := models.Timestamp(*res.EndTime)
			cr.End = &end
		}
		out.ConflictingReservations = append(out.ConflictingReservations, cr)
	}

	for _, issue := range conflict.TravelTimeIssues {
		out.TravelTimeIssues = append(out.TravelTimeIssues, models.TravelTimeIssue{
			From:             issue.From,
			To:               issue.To,
			RequiredMinutes:  issue.RequiredMinutes,
			AvailableMinutes: issue.AvailableMinutes,
			ShortfallMinutes: issue.ShortfallMinutes,
			Duration:         issue.Duration,
		})
	}

	return out
}
