package routing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockProvider struct {
	callCount atomic.Int32
	response  *RouteResponse
	err       error
}

func (m *mockProvider) GetRoute(_ context.Context, _ RouteRequest) (*RouteResponse, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) SupportedModes() []TravelMode {
	return []TravelMode{ModeDrive, ModeWalk, ModeTransit, ModeBicycle}
}

func testResponse() *RouteResponse {
	return &RouteResponse{
		DurationSeconds: 900,
		DistanceMeters:  5200,
		Provider:        "mock",
		FetchedAt:       time.Now(),
	}
}

func testRequest() RouteRequest {
	return RouteRequest{
		Origin:      Coordinate{Lat: 35.6595, Lon: 139.7005},
		Destination: Coordinate{Lat: 35.7188, Lon: 139.7765},
		Mode:        ModeDrive,
	}
}

func TestGetRoute_FetchesFromProvider(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	resp, err := svc.GetRoute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DurationSeconds != 900 {
		t.Errorf("expected 900s duration, got %d", resp.DurationSeconds)
	}
	if resp.Duration() != 15*time.Minute {
		t.Errorf("expected 15m duration, got %v", resp.Duration())
	}
	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
}

func TestGetRoute_CacheHit(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected cached second call, got %d provider calls", provider.callCount.Load())
	}
}

type mockCacheMetrics struct {
	hits   atomic.Int32
	misses atomic.Int32
}

func (m *mockCacheMetrics) RecordCacheHit(_, _ string)  { m.hits.Add(1) }
func (m *mockCacheMetrics) RecordCacheMiss(_, _ string) { m.misses.Add(1) }

func TestGetRoute_RecordsCacheMetrics(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	metrics := &mockCacheMetrics{}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop(), Metrics: metrics})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.misses.Load() != 1 {
		t.Errorf("expected 1 cache miss, got %d", metrics.misses.Load())
	}
	if metrics.hits.Load() != 1 {
		t.Errorf("expected 1 cache hit, got %d", metrics.hits.Load())
	}
}

func TestGetRoute_NearbyPointsShareCache(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Shift both endpoints well inside the same grid cell.
	nearby := testRequest()
	nearby.Origin.Lat += 0.0001
	nearby.Destination.Lon += 0.0001
	if _, err := svc.GetRoute(ctx, nearby); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected nearby request to hit cache, got %d provider calls", provider.callCount.Load())
	}
}

func TestGetRoute_DifferentModesCachedSeparately(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	walking := testRequest()
	walking.Mode = ModeWalk
	if _, err := svc.GetRoute(ctx, walking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 2 {
		t.Errorf("expected separate cache entries per mode, got %d provider calls", provider.callCount.Load())
	}
}

func TestGetRoute_StaleIfError(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.Nop(),
		CacheTTL:        time.Nanosecond,
		StaleIfErrorTTL: time.Hour,
	})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(time.Millisecond)
	provider.err = ErrProviderUnavailable

	resp, err := svc.GetRoute(ctx, testRequest())
	if err != nil {
		t.Fatalf("expected stale response on provider error, got %v", err)
	}
	if resp.DurationSeconds != 900 {
		t.Errorf("expected the cached estimate, got %d", resp.DurationSeconds)
	}
}

func TestGetRoute_ProviderErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{err: ErrProviderUnavailable}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.GetRoute(context.Background(), testRequest())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGetRoute_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	req := testRequest()
	req.Origin.Lat = 95
	_, err := svc.GetRoute(context.Background(), req)
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
	if provider.callCount.Load() != 0 {
		t.Errorf("expected no provider call for invalid input, got %d", provider.callCount.Load())
	}

	req = testRequest()
	req.Destination.Lon = -200
	if _, err := svc.GetRoute(context.Background(), req); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestInvalidateCache(t *testing.T) {
	provider := &mockProvider{response: testResponse()}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	ctx := context.Background()
	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.InvalidateCache()

	if _, err := svc.GetRoute(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.callCount.Load() != 2 {
		t.Errorf("expected refetch after invalidation, got %d provider calls", provider.callCount.Load())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want TravelMode
	}{
		{"drive", ModeDrive},
		{"walk", ModeWalk},
		{"transit", ModeTransit},
		{"bicycle", ModeBicycle},
		{"hovercraft", ModeDrive},
		{"", ModeDrive},
	}

	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
