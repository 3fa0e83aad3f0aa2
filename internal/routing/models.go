// Package routing provides travel-time estimation between itinerary
// locations for a small set of transport modes.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoute retrieves the best route between two points for a mode.
	GetRoute(ctx context.Context, req RouteRequest) (*RouteResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
	// SupportedModes returns the transport modes this provider can route.
	SupportedModes() []TravelMode
}

// TravelMode is a transport mode for travel-time estimation.
type TravelMode string

const (
	ModeDrive   TravelMode = "drive"
	ModeWalk    TravelMode = "walk"
	ModeTransit TravelMode = "transit"
	ModeBicycle TravelMode = "bicycle"
)

// ParseMode maps a mode string to a TravelMode, defaulting to driving for
// unknown values so advisory checks stay usable.
func ParseMode(s string) TravelMode {
	switch TravelMode(s) {
	case ModeDrive, ModeWalk, ModeTransit, ModeBicycle:
		return TravelMode(s)
	default:
		return ModeDrive
	}
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// RouteRequest is the request for a travel-time estimate.
type RouteRequest struct {
	Origin      Coordinate
	Destination Coordinate
	Mode        TravelMode
}

// RouteResponse is the best route found for a request.
type RouteResponse struct {
	DurationSeconds int
	DistanceMeters  int
	Provider        string
	FetchedAt       time.Time
}

// Duration returns the route duration as a time.Duration.
func (r *RouteResponse) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
