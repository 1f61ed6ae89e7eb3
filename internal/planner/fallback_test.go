package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/trip-backend-go/internal/models"
)

func pathlessRoute() *models.Route {
	return &models.Route{
		RouteID: "r1",
		Days: []models.Day{
			{
				DayNumber:  1,
				TravelMode: models.ModeWalking,
				POIs: []models.POI{
					{ID: "p1", VisitTime: "9:00", Coordinate: &models.Coordinate{Lat: 35.0, Lng: 139.0}},
					{ID: "p2", VisitTime: "10:00", Coordinate: &models.Coordinate{Lat: 35.1, Lng: 139.1}},
					{ID: "p3", VisitTime: "13:00", Coordinate: &models.Coordinate{Lat: 35.2, Lng: 139.2}},
				},
			},
		},
	}
}

func TestFallbackSortsByLexicalVisitTime(t *testing.T) {
	router := newStubRouter()
	enricher := NewFallbackEnricher(router)

	route := pathlessRoute()
	changed := enricher.Enrich(context.Background(), route)
	require.True(t, changed)

	// Lexical, not chronological: "10:00" and "13:00" sort before "9:00"
	got := []string{route.Days[0].POIs[0].ID, route.Days[0].POIs[1].ID, route.Days[0].POIs[2].ID}
	assert.Equal(t, []string{"p2", "p3", "p1"}, got)
}

func TestFallbackStitchesLegsOntoDestinations(t *testing.T) {
	router := newStubRouter()
	enricher := NewFallbackEnricher(router)

	route := pathlessRoute()
	enricher.Enrich(context.Background(), route)

	pois := route.Days[0].POIs
	assert.Nil(t, pois[0].ArrivalPath)
	require.NotNil(t, pois[1].ArrivalPath)
	require.NotNil(t, pois[2].ArrivalPath)
	assert.Equal(t, 2, router.calls)
}

func TestFallbackEstimatesWhenRouterFails(t *testing.T) {
	router := newStubRouter()
	route := pathlessRoute()

	// After the lexical sort the first leg runs p2 -> p3
	router.failLegs[legKey(*route.Days[0].POIs[1].Coordinate, *route.Days[0].POIs[2].Coordinate)] = true
	enricher := NewFallbackEnricher(router)

	changed := enricher.Enrich(context.Background(), route)
	require.True(t, changed)

	pois := route.Days[0].POIs
	assert.Nil(t, pois[1].ArrivalPath, "estimated legs carry no path")
	require.NotNil(t, pois[1].ArrivalDurationMinutes)
	assert.Greater(t, *pois[1].ArrivalDurationMinutes, 0.0)
}

func TestFallbackSkipsRoutesWithPaths(t *testing.T) {
	router := newStubRouter()
	enricher := NewFallbackEnricher(router)

	route := pathlessRoute()
	path := "existing"
	route.Days[0].POIs[1].ArrivalPath = &path

	changed := enricher.Enrich(context.Background(), route)
	assert.False(t, changed)
	assert.Equal(t, 0, router.calls)
}
