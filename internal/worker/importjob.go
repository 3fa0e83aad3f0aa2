// Package worker provides background job processing for Tripforge.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/flightimport"
)

// FlightLeg is one flight leg as carried in an import job message. Field
// names mirror the booking parser's output.
type FlightLeg struct {
	Carrier          string `json:"carrier"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	DepartureCity    string `json:"departureCity"`
	ArrivalAirport   string `json:"arrivalAirport"`
	ArrivalCity      string `json:"arrivalCity"`
	DepartureDate    string `json:"departureDate"`
	DepartureTime    string `json:"departureTime"`
	ArrivalDate      string `json:"arrivalDate"`
	ArrivalTime      string `json:"arrivalTime"`
	Cabin            string `json:"cabin,omitempty"`
	Seat             string `json:"seat,omitempty"`
	OperatedBy       string `json:"operatedBy,omitempty"`
}

// ImportJobConfig holds configuration for the import job.
type ImportJobConfig struct {
	Service *flightimport.Service
	Logger  zerolog.Logger

	// Timeout bounds one import run. Default: 30 seconds.
	Timeout time.Duration
}

// ImportJob runs asynchronous flight imports, typically triggered when the
// mail parsing pipeline finishes a booking confirmation.
type ImportJob struct {
	service *flightimport.Service
	logger  zerolog.Logger
	timeout time.Duration
}

// ImportResult summarizes one import run.
type ImportResult struct {
	TripID   string
	Clusters int
	Failed   int
	Extended bool
	Duration time.Duration
}

// NewImportJob creates a new import job.
func NewImportJob(cfg ImportJobConfig) *ImportJob {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImportJob{
		service: cfg.Service,
		logger:  cfg.Logger,
		timeout: timeout,
	}
}

// Run imports the given legs into a trip and applies the resulting plan.
func (j *ImportJob) Run(ctx context.Context, tripID string, legs []FlightLeg, apply bool) (*ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()

	domainLegs := make([]flightimport.FlightLeg, len(legs))
	for i, l := range legs {
		domainLegs[i] = flightimport.FlightLeg{
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

	plan, err := j.service.ImportFlights(ctx, tripID, domainLegs)
	if err != nil {
		return nil, fmt.Errorf("importing flights: %w", err)
	}

	if apply {
		if err := j.service.Apply(ctx, tripID, plan); err != nil {
			return nil, fmt.Errorf("applying plan: %w", err)
		}
	}

	result := &ImportResult{
		TripID:   tripID,
		Clusters: len(plan.Assignments),
		Extended: plan.Extension != nil,
		Duration: time.Since(start),
	}
	for _, ca := range plan.Assignments {
		if ca.Err != nil {
			result.Failed++
		}
	}

	return result, nil
}
