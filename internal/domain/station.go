package domain

// Coordinate is a WGS-84 position with an optional altitude in meters.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
}

// Station is the canonical weather station record. Provider-specific fields
// that have no canonical slot (secondary provider ids, status flags, regions)
// survive losslessly in Metadata.
//
// Stations are created and refreshed by adapter writes and are read-only to
// the query engine.
type Station struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Coordinate   Coordinate        `json:"coordinate"`
	ZoomLevel    *float64          `json:"zoom_level,omitempty"`
	ForecastOnly bool              `json:"forecast_only,omitempty"`
	AlertsArea   string            `json:"alerts_area,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Active reports whether the station is still operational. DWD marks
// decommissioned stations with a status metadata flag.
func (s *Station) Active() bool {
	status, ok := s.Metadata["status"]
	return !ok || status == "1"
}

// CurrentlyReporting reports whether the station has a live sensor feed,
// as opposed to model forecast coverage only.
func (s *Station) CurrentlyReporting() bool {
	return s.Active() && !s.ForecastOnly
}
