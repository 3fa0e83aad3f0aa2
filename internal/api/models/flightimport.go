package models

// FlightLeg is one parsed flight leg in an import request. Dates and times
// are local strings as produced by the booking parser.
type FlightLeg struct {
	Carrier          string `json:"carrier"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	DepartureCity    string `json:"departureCity"`
	ArrivalAirport   string `json:"arrivalAirport"`
	ArrivalCity      string `json:"arrivalCity"`
	DepartureDate    string `json:"departureDate" validate:"required"`
	DepartureTime    string `json:"departureTime"`
	ArrivalDate      string `json:"arrivalDate" validate:"required"`
	ArrivalTime      string `json:"arrivalTime"`
	Cabin            string `json:"cabin,omitempty"`
	Seat             string `json:"seat,omitempty"`
	OperatedBy       string `json:"operatedBy,omitempty"`
}

// FlightImportRequest asks the engine to reconcile parsed flight legs with
// a trip's itinerary.
type FlightImportRequest struct {
	Flights []FlightLeg `json:"flights" validate:"required,min=1"`

	// Apply persists accepted decisions (new segments, trip date extension)
	// instead of returning a dry-run plan.
	Apply bool `json:"apply,omitempty"`
}

// FlightImportResponse is the assignment plan for one import run.
type FlightImportResponse struct {
	Assignments []FlightAssignment `json:"assignments"`
	Extension   *TripDateExtension `json:"tripDateExtension,omitempty"`
}

// FlightAssignment is the decision for one travel cluster.
type FlightAssignment struct {
	Category      string             `json:"category,omitempty"`
	CreateSegment bool               `json:"createSegment"`
	SegmentID     string             `json:"segmentId,omitempty"`
	Reason        string             `json:"reason,omitempty"`
	Flights       []FlightLeg        `json:"flights"`
	Suggestion    *SegmentSuggestion `json:"suggestion,omitempty"`
	Error         *FieldError        `json:"error,omitempty"`
}

// SegmentSuggestion is a proposed new segment for an unmatched cluster.
type SegmentSuggestion struct {
	Name          string    `json:"name"`
	StartLocation string    `json:"startLocation"`
	EndLocation   string    `json:"endLocation"`
	Start         Timestamp `json:"start"`
	End           Timestamp `json:"end"`
	Type          string    `json:"type"`
	Reason        string    `json:"reason"`
}

// TripDateExtension is the widened trip window required to contain all
// imported flights.
type TripDateExtension struct {
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
}
