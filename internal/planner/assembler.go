package planner

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/trip-backend-go/internal/geocoding"
	"github.com/wayfare/trip-backend-go/internal/models"
)

// RouteStore persists assembled routes
type RouteStore interface {
	Create(route *models.Route) error
}

// Assembler builds a full multi-day route by fanning one DayBuilder task out
// per day and persists the merged result as a DRAFT
type Assembler struct {
	builder  *DayBuilder
	geocoder geocoding.Geocoder
	store    RouteStore
}

// NewAssembler creates a route assembler
func NewAssembler(builder *DayBuilder, geocoder geocoding.Geocoder, store RouteStore) *Assembler {
	return &Assembler{builder: builder, geocoder: geocoder, store: store}
}

// Assemble computes every day concurrently and persists the route. If any day
// fails nothing is persisted at all.
func (a *Assembler) Assemble(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error) {
	// The overall start location is resolved once and shared with every day
	// that does not bring its own
	var sharedStart *models.Coordinate
	if req.StartLocation != "" {
		coord, err := a.geocoder.Resolve(ctx, req.StartLocation)
		if err != nil {
			return nil, &AssemblyFailed{Errs: []error{err}}
		}
		sharedStart = coord
	}

	days := daysFromRequest(req, sharedStart)

	type dayResult struct {
		day models.Day
		err error
	}
	results := make(chan dayResult, len(days))

	for _, d := range days {
		go func(d models.Day) {
			built, err := a.builder.Build(ctx, d)
			results <- dayResult{day: built, err: err}
		}(d)
	}

	built := make([]models.Day, 0, len(days))
	var dayErrs []error
	for range days {
		res := <-results
		if res.err != nil {
			dayErrs = append(dayErrs, res.err)
			continue
		}
		built = append(built, res.day)
	}

	if len(dayErrs) > 0 {
		log.Printf("[PLANNER] Assembly failed: user=%s days_failed=%d", userID, len(dayErrs))
		return nil, &AssemblyFailed{Errs: dayErrs}
	}

	// Day numbers need not arrive in order; callers observe a deterministic
	// order regardless of completion order
	sort.Slice(built, func(i, j int) bool { return built[i].DayNumber < built[j].DayNumber })

	title := req.Title
	if title == "" {
		title = req.Destination
	}

	now := time.Now().UTC()
	route := &models.Route{
		RouteID:     uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Destination: req.Destination,
		Status:      models.StatusDraft,
		Optimize:    req.Optimize,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        built,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.store.Create(route); err != nil {
		return nil, err
	}

	log.Printf("[PLANNER] Route assembled: route=%s user=%s days=%d", route.RouteID, userID, len(built))
	return route, nil
}

// daysFromRequest maps the request payload onto model days. The shared start
// coordinate is attached only to days without a start location of their own;
// POI order is kept exactly as submitted.
func daysFromRequest(req models.CreateRouteRequest, sharedStart *models.Coordinate) []models.Day {
	days := make([]models.Day, 0, len(req.Days))
	for _, d := range req.Days {
		mode := d.TravelMode
		if mode == "" {
			mode = models.ModeDriving
		}

		day := models.Day{
			DayNumber:         d.DayNumber,
			TravelMode:        mode,
			StartLocationText: d.StartLocation,
			POIs:              make([]models.POI, 0, len(d.POIs)),
		}
		if d.StartLocation == "" && sharedStart != nil {
			coord := *sharedStart
			day.StartCoordinate = &coord
		}

		for _, p := range d.POIs {
			poi := models.POI{
				ID:              p.ID,
				ExternalPlaceID: p.ExternalPlaceID,
				Name:            p.Name,
				Address:         p.Address,
				VisitTime:       p.VisitTime,
			}
			if p.Lat != nil && p.Lng != nil {
				poi.Coordinate = &models.Coordinate{Lat: *p.Lat, Lng: *p.Lng}
			}
			day.POIs = append(day.POIs, poi)
		}

		days = append(days, day)
	}
	return days
}
