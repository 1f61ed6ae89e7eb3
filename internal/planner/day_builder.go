package planner

import (
	"context"
	"log"
	"sync"

	"github.com/wayfare/trip-backend-go/internal/directions"
	"github.com/wayfare/trip-backend-go/internal/geocoding"
	"github.com/wayfare/trip-backend-go/internal/models"
)

// DayBuilder annotates one day's ordered POI list with the travel path and
// duration needed to arrive at each stop
type DayBuilder struct {
	geocoder geocoding.Geocoder
	router   directions.Router
}

// NewDayBuilder creates a day route builder
func NewDayBuilder(geocoder geocoding.Geocoder, router directions.Router) *DayBuilder {
	return &DayBuilder{geocoder: geocoder, router: router}
}

// Build resolves every stop's coordinate and stitches the travel legs.
// Coordinates are looked up concurrently; any geocoding failure fails the
// whole day. Leg computation is sequential and a failed leg only leaves that
// stop's arrival fields empty.
func (b *DayBuilder) Build(ctx context.Context, day models.Day) (models.Day, error) {
	if err := b.resolveCoordinates(ctx, &day); err != nil {
		return day, err
	}

	n := len(day.POIs)
	if n == 0 {
		return day, nil
	}

	// Day start -> first stop, kept on separate fields from the regular
	// stop-to-stop arrival pair
	if day.StartCoordinate != nil {
		leg, err := b.router.Route(ctx, *day.StartCoordinate, *day.POIs[0].Coordinate, day.TravelMode)
		if err != nil {
			log.Printf("[PLANNER] Leg start->0 unresolved: day=%d err=%v", day.DayNumber, err)
		} else {
			day.POIs[0].ArrivalFromStartPath = &leg.EncodedPath
			day.POIs[0].ArrivalFromStartDurationMinutes = &leg.DurationMinutes
		}
	}

	// The leg between stop i and stop i+1 is attached to stop i+1
	for i := 0; i < n-1; i++ {
		leg, err := b.router.Route(ctx, *day.POIs[i].Coordinate, *day.POIs[i+1].Coordinate, day.TravelMode)
		if err != nil {
			log.Printf("[PLANNER] Leg %d->%d unresolved: day=%d err=%v", i, i+1, day.DayNumber, err)
			continue
		}
		day.POIs[i+1].ArrivalPath = &leg.EncodedPath
		day.POIs[i+1].ArrivalDurationMinutes = &leg.DurationMinutes
	}

	return day, nil
}

// resolveCoordinates geocodes the day start and every stop that arrived
// without a coordinate. Lookups are independent, so they run concurrently;
// each goroutine owns exactly one slot of the error slice.
func (b *DayBuilder) resolveCoordinates(ctx context.Context, day *models.Day) error {
	var wg sync.WaitGroup
	errs := make([]error, len(day.POIs))
	var startErr error

	if day.StartCoordinate == nil && day.StartLocationText != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord, err := b.geocoder.Resolve(ctx, day.StartLocationText)
			if err != nil {
				startErr = err
				return
			}
			day.StartCoordinate = coord
		}()
	}

	for i := range day.POIs {
		if day.POIs[i].Coordinate != nil {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coord, err := b.geocoder.Resolve(ctx, day.POIs[i].Address)
			if err != nil {
				errs[i] = err
				return
			}
			day.POIs[i].Coordinate = coord
		}(i)
	}

	wg.Wait()

	if startErr != nil {
		return &GeocodingFailed{Day: day.DayNumber, POIIndex: -1, Err: startErr}
	}
	for i, err := range errs {
		if err != nil {
			return &GeocodingFailed{Day: day.DayNumber, POIIndex: i, Err: err}
		}
	}

	return nil
}
