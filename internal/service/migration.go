package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/trip-backend-go/internal/models"
)

// BuildItinerary reshapes a draft route into the confirmed store's
// representation: activities grouped by day, coordinates flattened to plain
// lat/lng, a freshly fabricated itinerary id, and the draft's route id as a
// back-reference so the two records stay traceable to each other.
func BuildItinerary(route *models.Route, status string) *models.Itinerary {
	dayPlans := make([]models.DayPlan, 0, len(route.Days))
	startLocation := ""

	for _, day := range route.Days {
		if startLocation == "" && day.StartLocationText != "" {
			startLocation = day.StartLocationText
		}

		activities := make([]models.Activity, 0, len(day.POIs))
		for pos, poi := range day.POIs {
			activity := models.Activity{
				Position: pos,
				PlaceID:  poi.ExternalPlaceID,
				Name:     poi.Name,
				Address:  poi.Address,
			}
			if poi.Coordinate != nil {
				lat, lng := poi.Coordinate.Lat, poi.Coordinate.Lng
				activity.Lat = &lat
				activity.Lng = &lng
			}
			// The confirmed shape keeps one arrival pair per activity; the
			// first stop's arrival-from-start fields map onto it
			if poi.ArrivalPath != nil {
				activity.Path = poi.ArrivalPath
				activity.DurationMinutes = poi.ArrivalDurationMinutes
			} else if poi.ArrivalFromStartPath != nil {
				activity.Path = poi.ArrivalFromStartPath
				activity.DurationMinutes = poi.ArrivalFromStartDurationMinutes
			}
			activities = append(activities, activity)
		}

		dayPlans = append(dayPlans, models.DayPlan{
			DayNumber:  day.DayNumber,
			TravelMode: day.TravelMode,
			Activities: activities,
		})
	}

	now := time.Now().UTC()
	return &models.Itinerary{
		ItineraryID:       uuid.NewString(),
		UserID:            route.UserID,
		RouteID:           route.RouteID,
		Title:             route.Title,
		Destination:       route.Destination,
		Status:            status,
		DurationDays:      len(route.Days),
		StartLocationText: startLocation,
		StartDate:         route.StartDate,
		EndDate:           route.EndDate,
		DayPlans:          dayPlans,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
