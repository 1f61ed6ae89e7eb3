package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/trip-backend-go/internal/models"
	"github.com/wayfare/trip-backend-go/internal/places"
)

type stubDirectory struct {
	mu      sync.Mutex
	entries map[string]places.Place
	err     error
	lastIDs []string
}

func (d *stubDirectory) LookupMany(ctx context.Context, ids []string) (map[string]places.Place, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastIDs = append([]string(nil), ids...)
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]places.Place)
	for _, id := range ids {
		if entry, ok := d.entries[id]; ok {
			out[id] = entry
		}
	}
	return out, nil
}

func reconcilableRoute() *models.Route {
	return &models.Route{
		RouteID: "route-1",
		Days: []models.Day{
			{DayNumber: 1, POIs: []models.POI{
				{ID: "p1", ExternalPlaceID: "abc123", Name: "Old Cafe Name"},
				{ID: "p2", ExternalPlaceID: "places/abc123", Name: "Old Cafe Name"},
				{ID: "p3", Name: "No external id"},
			}},
		},
	}
}

func TestReconcilePrefixedAndBareIDsCollide(t *testing.T) {
	dir := &stubDirectory{entries: map[string]places.Place{
		"abc123": {ID: "abc123", Name: "Canonical Cafe"},
	}}
	rec := NewReconciler(dir)
	route := reconcilableRoute()

	changed := rec.ReconcileRoute(context.Background(), route)

	assert.True(t, changed)
	assert.Equal(t, "Canonical Cafe", route.Days[0].POIs[0].Name)
	assert.Equal(t, "Canonical Cafe", route.Days[0].POIs[1].Name, "places/abc123 resolves as abc123")
	assert.Equal(t, "No external id", route.Days[0].POIs[2].Name)
	require.Len(t, dir.lastIDs, 1, "duplicate ids collapse into one lookup")
	assert.Equal(t, "abc123", dir.lastIDs[0])
}

func TestReconcileNoChangeWhenNamesMatch(t *testing.T) {
	dir := &stubDirectory{entries: map[string]places.Place{
		"abc123": {ID: "abc123", Name: "Old Cafe Name"},
	}}
	rec := NewReconciler(dir)
	route := reconcilableRoute()

	assert.False(t, rec.ReconcileRoute(context.Background(), route))
}

func TestReconcileToleratesDirectoryFailure(t *testing.T) {
	dir := &stubDirectory{err: &places.ErrLookupFailed{Reason: "directory down"}}
	rec := NewReconciler(dir)
	route := reconcilableRoute()

	changed := rec.ReconcileRoute(context.Background(), route)

	assert.False(t, changed)
	assert.Equal(t, "Old Cafe Name", route.Days[0].POIs[0].Name, "stored names survive a failed lookup")
}

func TestReconcileEmptyDirectoryNameIgnored(t *testing.T) {
	dir := &stubDirectory{entries: map[string]places.Place{
		"abc123": {ID: "abc123", Name: ""},
	}}
	rec := NewReconciler(dir)
	route := reconcilableRoute()

	assert.False(t, rec.ReconcileRoute(context.Background(), route))
	assert.Equal(t, "Old Cafe Name", route.Days[0].POIs[0].Name)
}

func TestReconcileItinerary(t *testing.T) {
	dir := &stubDirectory{entries: map[string]places.Place{
		"abc123": {ID: "abc123", Name: "Canonical Cafe"},
	}}
	rec := NewReconciler(dir)
	it := &models.Itinerary{
		ItineraryID: "it-1",
		DayPlans: []models.DayPlan{
			{DayNumber: 1, Activities: []models.Activity{
				{Position: 0, PlaceID: "places/abc123", Name: "Old Cafe Name"},
				{Position: 1, Name: "Unlinked"},
			}},
		},
	}

	assert.True(t, rec.ReconcileItinerary(context.Background(), it))
	assert.Equal(t, "Canonical Cafe", it.DayPlans[0].Activities[0].Name)
	assert.Equal(t, "Unlinked", it.DayPlans[0].Activities[1].Name)
}

func TestNormalizePlaceID(t *testing.T) {
	assert.Equal(t, "abc123", NormalizePlaceID("places/abc123"))
	assert.Equal(t, "abc123", NormalizePlaceID("abc123"))
	assert.Equal(t, "", NormalizePlaceID(""))
}
