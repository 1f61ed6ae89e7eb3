package planner

import (
	"context"
	"log"
	"sort"

	"github.com/golang/geo/s2"
	"github.com/wayfare/trip-backend-go/internal/directions"
	"github.com/wayfare/trip-backend-go/internal/models"
)

const earthRadiusMeters = 6371000.0

// Straight-line speeds in meters per minute used when the routing provider is
// unreachable during fallback stitching
var fallbackSpeeds = map[string]float64{
	models.ModeDriving:   600,
	models.ModeWalking:   80,
	models.ModeBicycling: 250,
	models.ModeTransit:   400,
}

// FallbackEnricher stitches travel legs into routes that were stored without
// any path data. It only ever runs on read, and only when the route carries no
// paths at all.
type FallbackEnricher struct {
	router directions.Router
}

// NewFallbackEnricher creates a fallback enricher
func NewFallbackEnricher(router directions.Router) *FallbackEnricher {
	return &FallbackEnricher{router: router}
}

// Enrich fills in arrival paths and durations for a path-less route, mutating
// it in place. Returns true when anything was filled in.
//
// Stops are ordered by their raw visit-time string before stitching. The
// comparison is lexical, not chronological ("9:00" sorts after "10:00"); kept
// for compatibility with payloads produced by earlier clients and not used on
// any other path.
func (f *FallbackEnricher) Enrich(ctx context.Context, route *models.Route) bool {
	if route.HasAnyPath() {
		return false
	}

	enriched := false
	for di := range route.Days {
		day := &route.Days[di]

		sort.SliceStable(day.POIs, func(i, j int) bool {
			return day.POIs[i].VisitTime < day.POIs[j].VisitTime
		})

		for i := 0; i < len(day.POIs)-1; i++ {
			from := day.POIs[i].Coordinate
			to := day.POIs[i+1].Coordinate
			if from == nil || to == nil {
				continue
			}

			leg, err := f.router.Route(ctx, *from, *to, day.TravelMode)
			if err != nil {
				// Provider down: estimate the duration from great-circle
				// distance so the leg is not left completely blank
				minutes := estimateMinutes(*from, *to, day.TravelMode)
				day.POIs[i+1].ArrivalDurationMinutes = &minutes
				log.Printf("[PLANNER] Fallback estimate: route=%s day=%d leg=%d minutes=%.1f", route.RouteID, day.DayNumber, i, minutes)
				enriched = true
				continue
			}

			day.POIs[i+1].ArrivalPath = &leg.EncodedPath
			day.POIs[i+1].ArrivalDurationMinutes = &leg.DurationMinutes
			enriched = true
		}
	}

	return enriched
}

// estimateMinutes approximates a leg duration from the great-circle distance
// between the endpoints and a per-mode cruising speed
func estimateMinutes(from, to models.Coordinate, mode string) float64 {
	a := s2.LatLngFromDegrees(from.Lat, from.Lng)
	b := s2.LatLngFromDegrees(to.Lat, to.Lng)
	meters := a.Distance(b).Radians() * earthRadiusMeters

	speed, ok := fallbackSpeeds[mode]
	if !ok {
		speed = fallbackSpeeds[models.ModeDriving]
	}
	return meters / speed
}
