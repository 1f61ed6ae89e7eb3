package models

import "time"

// Itinerary is a confirmed-store record: the migration target for a draft
// route. Activities are grouped by day and coordinates flattened to plain
// lat/lng regardless of the draft representation.
type Itinerary struct {
	ItineraryID string `json:"itinerary_id" db:"itinerary_id"`
	UserID      string `json:"user_id" db:"user_id"`

	// RouteID back-references the draft-store record this was migrated from
	RouteID string `json:"route_id,omitempty" db:"route_id"`

	Title             string `json:"title" db:"title"`
	Destination       string `json:"destination" db:"destination"`
	Status            string `json:"status" db:"status"`
	DurationDays      int    `json:"duration_days" db:"duration_days"`
	StartLocationText string `json:"start_location,omitempty" db:"start_location"`
	StartDate         string `json:"start_date,omitempty" db:"start_date"`
	EndDate           string `json:"end_date,omitempty" db:"end_date"`

	DayPlans []DayPlan `json:"day_plans"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DayPlan groups one day's activities in the confirmed-store shape
type DayPlan struct {
	DayNumber  int        `json:"day_number"`
	TravelMode string     `json:"travel_mode"`
	Activities []Activity `json:"activities"`
}

// Activity is one confirmed stop. Position preserves the submitted POI order.
type Activity struct {
	Position        int      `json:"position"`
	PlaceID         string   `json:"place_id,omitempty"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Path            *string  `json:"path,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
}
