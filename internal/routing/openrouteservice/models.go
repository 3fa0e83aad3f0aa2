package openrouteservice

// orsRequest is the request body for the ORS directions endpoint.
type orsRequest struct {
	// Coordinates are [lon, lat] pairs (GeoJSON order).
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
}

// orsResponse is the subset of the ORS directions response we consume.
type orsResponse struct {
	Routes []orsRoute `json:"routes"`
}

type orsRoute struct {
	Summary orsSummary `json:"summary"`
}

type orsSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// orsErrorResponse is the ORS error envelope.
type orsErrorResponse struct {
	Error orsError `json:"error"`
}

type orsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// orsErrorCodeNotFound is the ORS error code for "no routable point found".
const orsErrorCodeNotFound = 2010
