package models

import "time"

// Route lifecycle statuses. MAIN is the single highlighted active route per
// user; the status machine keeps at most one MAIN across both stores.
const (
	StatusDraft     = "DRAFT"
	StatusConfirmed = "CONFIRMED"
	StatusMain      = "MAIN"
	StatusArchived  = "ARCHIVED"
)

// Travel modes accepted per day
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// Coordinate is an immutable latitude/longitude pair
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// POI is a single stop in a day's itinerary. The arrival fields describe the
// travel segment leading INTO the stop from whatever preceded it: the edge
// between stop i-1 and stop i is stored on stop i, not on stop i-1. The first
// stop of a day instead carries arrival-from-start fields when the day has a
// start location; the two pairs are kept separate to avoid ambiguity.
type POI struct {
	ID              string      `json:"id"`
	ExternalPlaceID string      `json:"external_place_id,omitempty"`
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	Coordinate      *Coordinate `json:"coordinate,omitempty"`
	VisitTime       string      `json:"visit_time,omitempty"`

	ArrivalPath            *string  `json:"arrival_path,omitempty"`
	ArrivalDurationMinutes *float64 `json:"arrival_duration_minutes,omitempty"`

	ArrivalFromStartPath            *string  `json:"arrival_from_start_path,omitempty"`
	ArrivalFromStartDurationMinutes *float64 `json:"arrival_from_start_duration_minutes,omitempty"`
}

// Day is one day of a route. POI order is caller-supplied and never re-sorted
// by the builder; day numbers are 1-based and need not be contiguous.
type Day struct {
	DayNumber         int         `json:"day_number"`
	TravelMode        string      `json:"travel_mode"`
	StartLocationText string      `json:"start_location,omitempty"`
	StartCoordinate   *Coordinate `json:"start_coordinate,omitempty"`
	POIs              []POI       `json:"pois"`
}

// Route is a persisted draft-store record
type Route struct {
	RouteID     string `json:"route_id" db:"route_id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Destination string `json:"destination" db:"destination"`
	Status      string `json:"status" db:"status"`
	Optimize    bool   `json:"optimize" db:"optimize"`
	StartDate   string `json:"start_date,omitempty" db:"start_date"`
	EndDate     string `json:"end_date,omitempty" db:"end_date"`

	// ItineraryID cross-references the confirmed-store record once migrated
	ItineraryID string `json:"itinerary_id,omitempty" db:"itinerary_id"`

	Days []Day `json:"days"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasAnyPath reports whether any stop of any day carries an arrival path.
// Routes saved before path computation existed have none; the fallback
// enrichment path keys off this.
func (r *Route) HasAnyPath() bool {
	for _, d := range r.Days {
		for _, p := range d.POIs {
			if p.ArrivalPath != nil || p.ArrivalFromStartPath != nil {
				return true
			}
		}
	}
	return false
}

// ValidStatus reports whether s is a known route status
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusMain, StatusArchived:
		return true
	}
	return false
}

// ValidTravelMode reports whether m is a supported travel mode
func ValidTravelMode(m string) bool {
	switch m {
	case ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
		return true
	}
	return false
}
