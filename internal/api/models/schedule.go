package models

// SlotValidationRequest proposes a reservation slot on one trip day.
type SlotValidationRequest struct {
	// Day is the 1-based trip day index.
	Day int `json:"day" validate:"required,gte=1"`

	// StartTime and EndTime are local time-of-day strings ("15:04").
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`

	// Location enables travel-time checks when present.
	Location *Point `json:"location,omitempty"`

	// Mode is the transport mode for travel-time checks (default: drive).
	Mode Mode `json:"mode,omitempty"`
}

// SlotValidationResponse is the conflict report for a proposed slot.
type SlotValidationResponse struct {
	HasConflict             bool                     `json:"hasConflict"`
	ConflictingReservations []ConflictingReservation `json:"conflictingReservations,omitempty"`
	TravelTimeIssues        []TravelTimeIssue        `json:"travelTimeIssues,omitempty"`
}

// ConflictingReservation identifies a reservation overlapping the proposal.
type ConflictingReservation struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Start Timestamp  `json:"start"`
	End   *Timestamp `json:"end,omitempty"`
}

// TravelTimeIssue records insufficient travel time between a neighboring
// reservation and the proposed slot.
type TravelTimeIssue struct {
	From             string `json:"from"`
	To               string `json:"to"`
	RequiredMinutes  int    `json:"requiredMinutes"`
	AvailableMinutes int    `json:"availableMinutes"`
	ShortfallMinutes int    `json:"shortfallMinutes"`
	Duration         string `json:"duration"`
}

// SlotSuggestion is one alternative free slot on a day.
type SlotSuggestion struct {
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
	Label string    `json:"label,omitempty"`
}

// SlotSuggestionsResponse lists alternative slots for a day.
type SlotSuggestionsResponse struct {
	Slots []SlotSuggestion `json:"slots"`
}
