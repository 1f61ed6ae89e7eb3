package models

// CreateRouteRequest is the request body for assembling a new route
type CreateRouteRequest struct {
	Title         string             `json:"title"`
	Destination   string             `json:"destination" binding:"required"`
	StartLocation string             `json:"start_location"`
	Optimize      bool               `json:"optimize"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	Days          []CreateDayRequest `json:"days" binding:"required,min=1,dive"`
}

// CreateDayRequest is one day of a route assembly request
type CreateDayRequest struct {
	DayNumber     int                `json:"day_number" binding:"required,min=1"`
	TravelMode    string             `json:"travel_mode" binding:"omitempty,oneof=driving walking bicycling transit"`
	StartLocation string             `json:"start_location"`
	POIs          []CreatePOIRequest `json:"pois" binding:"required,min=1,dive"`
}

// CreatePOIRequest is one stop of a day. Either an address or an already
// resolved coordinate must be present.
type CreatePOIRequest struct {
	ID              string   `json:"id"`
	ExternalPlaceID string   `json:"external_place_id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	VisitTime       string   `json:"visit_time"`
}

// ChangeStatusRequest is the request body for a route status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT CONFIRMED MAIN ARCHIVED"`
}
