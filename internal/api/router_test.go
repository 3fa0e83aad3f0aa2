package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/tripforge/internal/api"
	"github.com/tripforge/tripforge/internal/api/models"
	"github.com/tripforge/tripforge/internal/flightimport"
	"github.com/tripforge/tripforge/internal/itinerary"
	"github.com/tripforge/tripforge/internal/schedule"
)

// seedRepository builds an in-memory itinerary with one trip, its segments
// and a lunch reservation on day 3.
func seedRepository() *itinerary.InMemoryRepository {
	repo := itinerary.NewInMemoryRepository()

	repo.AddTrip(&itinerary.Trip{
		ID:        "trp_japan",
		UserID:    "usr_1",
		Name:      "Japan 2024",
		StartDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	})

	flightStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	flightEnd := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	repo.AddSegment(&itinerary.Segment{
		ID: "seg_fly", TripID: "trp_japan", Name: "Travel to Tokyo",
		StartLocation: "Amsterdam (AMS)", EndLocation: "Tokyo (NRT)",
		StartDate: &flightStart, EndDate: &flightEnd, Order: 0, Type: "Flight",
	})

	lunchStart := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)
	lunchEnd := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)
	repo.AddReservation(&itinerary.Reservation{
		ID: "res_lunch", TripID: "trp_japan", Name: "Lunch at Ichiran",
		StartTime: &lunchStart, EndTime: &lunchEnd,
	})

	return repo
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	repo := seedRepository()

	importService := flightimport.NewService(flightimport.ServiceConfig{
		Repo:   repo,
		Logger: logger,
	})
	scheduleService := schedule.NewService(schedule.ServiceConfig{
		Repo:   repo,
		Logger: logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:             "test",
		BuildTime:           "2024-01-01T00:00:00Z",
		Logger:              logger,
		FlightImportService: importService,
		ScheduleService:     scheduleService,
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ImportFlights(t *testing.T) {
	router := newTestRouter()

	input := models.FlightImportRequest{
		Flights: []models.FlightLeg{
			{
				Carrier: "KL", FlightNumber: "861",
				DepartureAirport: "AMS", DepartureCity: "Amsterdam",
				ArrivalAirport: "NRT", ArrivalCity: "Tokyo",
				DepartureDate: "2024-06-10", DepartureTime: "09:00",
				ArrivalDate: "2024-06-11", ArrivalTime: "07:00",
			},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trp_japan/flights/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.FlightImportResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, "seg_fly", resp.Assignments[0].SegmentID)
	assert.False(t, resp.Assignments[0].CreateSegment)
	assert.Nil(t, resp.Extension)
}

func TestRouter_ImportFlights_EmptyBody(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.FlightImportRequest{})

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trp_japan/flights/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_ImportFlights_TripNotFound(t *testing.T) {
	router := newTestRouter()

	input := models.FlightImportRequest{
		Flights: []models.FlightLeg{
			{
				DepartureDate: "2024-06-10", DepartureTime: "09:00",
				ArrivalDate: "2024-06-10", ArrivalTime: "13:00",
				DepartureCity: "Amsterdam", ArrivalCity: "Lisbon",
			},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trp_missing/flights/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
}

func TestRouter_ValidateSlot_Conflict(t *testing.T) {
	router := newTestRouter()

	input := models.SlotValidationRequest{
		Day:       3,
		StartTime: "15:00",
		EndTime:   "16:00",
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trp_japan/schedule/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SlotValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.HasConflict)
	require.Len(t, resp.ConflictingReservations, 1)
	assert.Equal(t, "Lunch at Ichiran", resp.ConflictingReservations[0].Name)
}

func TestRouter_ValidateSlot_ValidationError(t *testing.T) {
	router := newTestRouter()

	// Missing startTime and endTime
	input := models.SlotValidationRequest{Day: 3}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trp_japan/schedule/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_SuggestSlots(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trp_japan/schedule/slots?day=3&durationMinutes=90", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SlotSuggestionsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Slots)
	assert.Equal(t, "next available slot", resp.Slots[0].Label)
}

func TestRouter_SuggestSlots_InvalidDay(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trp_japan/schedule/slots?day=zero", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
