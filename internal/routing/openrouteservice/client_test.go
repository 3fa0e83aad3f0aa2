package openrouteservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/routing"
)

func testRouteRequest() routing.RouteRequest {
	return routing.RouteRequest{
		Origin:      routing.Coordinate{Lat: 35.6595, Lon: 139.7005},
		Destination: routing.Coordinate{Lat: 35.7188, Lon: 139.7765},
		Mode:        routing.ModeDrive,
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})
}

func TestGetRoute_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody orsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(orsResponse{
			Routes: []orsRoute{{Summary: orsSummary{Distance: 5234.7, Duration: 912.3}}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.GetRoute(context.Background(), testRouteRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v2/directions/driving-car" {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if gotAuth != "test-key" {
		t.Errorf("expected API key in Authorization header, got %q", gotAuth)
	}
	if len(gotBody.Coordinates) != 2 || gotBody.Coordinates[0][0] != 139.7005 {
		t.Errorf("expected lon,lat coordinate order, got %v", gotBody.Coordinates)
	}

	if resp.DurationSeconds != 912 {
		t.Errorf("expected 912s duration, got %d", resp.DurationSeconds)
	}
	if resp.DistanceMeters != 5234 {
		t.Errorf("expected 5234m distance, got %d", resp.DistanceMeters)
	}
	if resp.Provider != ProviderName {
		t.Errorf("expected provider %q, got %q", ProviderName, resp.Provider)
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		mode routing.TravelMode
		want string
	}{
		{routing.ModeDrive, "driving-car"},
		{routing.ModeWalk, "foot-walking"},
		{routing.ModeBicycle, "cycling-regular"},
		{routing.ModeTransit, "driving-car"},
		{routing.TravelMode("unknown"), "driving-car"},
	}

	for _, tt := range tests {
		if got := profileFor(tt.mode); got != tt.want {
			t.Errorf("profileFor(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestGetRoute_NoRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(orsResponse{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetRoute(context.Background(), testRouteRequest())
	if !errors.Is(err, routing.ErrNoRouteFound) {
		t.Fatalf("expected ErrNoRouteFound, got %v", err)
	}
}

func TestGetRoute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    orsErrorResponse
		wantErr error
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			wantErr: routing.ErrRateLimitExceeded,
		},
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			wantErr: routing.ErrProviderUnavailable,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			wantErr: routing.ErrNoRouteFound,
		},
		{
			name:    "unroutable point",
			status:  http.StatusBadRequest,
			body:    orsErrorResponse{Error: orsError{Code: orsErrorCodeNotFound, Message: "no routable point"}},
			wantErr: routing.ErrNoRouteFound,
		},
		{
			name:    "bad coordinates",
			status:  http.StatusBadRequest,
			body:    orsErrorResponse{Error: orsError{Code: 2003, Message: "parameter out of range"}},
			wantErr: routing.ErrInvalidCoordinates,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			wantErr: routing.ErrProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.GetRoute(context.Background(), testRouteRequest())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var routingErr *routing.Error
			if !errors.As(err, &routingErr) {
				t.Fatal("expected a *routing.Error")
			}
			if routingErr.Provider != ProviderName {
				t.Errorf("expected provider %q, got %q", ProviderName, routingErr.Provider)
			}
		})
	}
}

func TestGetRoute_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetRoute(context.Background(), testRouteRequest())
	if !errors.Is(err, routing.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
