package planner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/trip-backend-go/internal/directions"
	"github.com/wayfare/trip-backend-go/internal/models"
)

// stubGeocoder resolves addresses from a fixed table and is safe for the
// builder's concurrent lookups
type stubGeocoder struct {
	mu     sync.Mutex
	coords map[string]models.Coordinate
	fail   map[string]bool
	calls  int
}

func newStubGeocoder(coords map[string]models.Coordinate) *stubGeocoder {
	return &stubGeocoder{coords: coords, fail: map[string]bool{}}
}

func (g *stubGeocoder) Resolve(_ context.Context, address string) (*models.Coordinate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if g.fail[address] {
		return nil, fmt.Errorf("stub geocoder failure for %s", address)
	}
	coord, ok := g.coords[address]
	if !ok {
		return nil, fmt.Errorf("stub geocoder has no entry for %s", address)
	}
	c := coord
	return &c, nil
}

// stubRouter returns a deterministic leg per origin/destination pair and can
// be told to fail specific legs
type stubRouter struct {
	mu       sync.Mutex
	calls    int
	failLegs map[string]bool
}

func newStubRouter() *stubRouter {
	return &stubRouter{failLegs: map[string]bool{}}
}

func legKey(origin, dest models.Coordinate) string {
	return fmt.Sprintf("%.3f,%.3f->%.3f,%.3f", origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}

func (r *stubRouter) Route(_ context.Context, origin, dest models.Coordinate, mode string) (*directions.Leg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	key := legKey(origin, dest)
	if r.failLegs[key] {
		return nil, fmt.Errorf("stub router failure for %s", key)
	}
	return &directions.Leg{
		EncodedPath:     "path:" + key,
		DurationMinutes: 10,
		DistanceMeters:  1000,
	}, nil
}

func testDay(addresses ...string) models.Day {
	day := models.Day{DayNumber: 1, TravelMode: models.ModeDriving}
	for i, addr := range addresses {
		day.POIs = append(day.POIs, models.POI{
			ID:      fmt.Sprintf("poi-%d", i),
			Name:    addr,
			Address: addr,
		})
	}
	return day
}

func coordTable(addresses ...string) map[string]models.Coordinate {
	coords := make(map[string]models.Coordinate, len(addresses))
	for i, addr := range addresses {
		coords[addr] = models.Coordinate{Lat: 35.0 + float64(i), Lng: 139.0 + float64(i)}
	}
	return coords
}

func TestDayBuilderCallCountWithStart(t *testing.T) {
	geocoder := newStubGeocoder(coordTable("a", "b", "c"))
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)

	day := testDay("a", "b", "c")
	start := models.Coordinate{Lat: 10, Lng: 20}
	day.StartCoordinate = &start

	built, err := builder.Build(context.Background(), day)
	require.NoError(t, err)

	// 1 start->first plus N-1 pairwise
	assert.Equal(t, 3, router.calls)
	require.Len(t, built.POIs, 3)
	assert.NotNil(t, built.POIs[0].ArrivalFromStartPath)
	assert.Nil(t, built.POIs[0].ArrivalPath)
}

func TestDayBuilderCallCountWithoutStart(t *testing.T) {
	geocoder := newStubGeocoder(coordTable("a", "b", "c", "d"))
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)

	built, err := builder.Build(context.Background(), testDay("a", "b", "c", "d"))
	require.NoError(t, err)

	assert.Equal(t, 3, router.calls)
	assert.Nil(t, built.POIs[0].ArrivalFromStartPath)
	assert.Nil(t, built.POIs[0].ArrivalPath)
}

func TestDayBuilderAttachesLegToDestination(t *testing.T) {
	geocoder := newStubGeocoder(coordTable("a", "b"))
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)

	built, err := builder.Build(context.Background(), testDay("a", "b"))
	require.NoError(t, err)

	// The a->b leg lands on b, never on a
	assert.Nil(t, built.POIs[0].ArrivalPath)
	assert.Nil(t, built.POIs[0].ArrivalDurationMinutes)
	require.NotNil(t, built.POIs[1].ArrivalPath)
	require.NotNil(t, built.POIs[1].ArrivalDurationMinutes)
	assert.Equal(t, 10.0, *built.POIs[1].ArrivalDurationMinutes)
}

func TestDayBuilderLegFailureDegrades(t *testing.T) {
	coords := coordTable("a", "b", "c")
	geocoder := newStubGeocoder(coords)
	router := newStubRouter()
	router.failLegs[legKey(coords["a"], coords["b"])] = true
	builder := NewDayBuilder(geocoder, router)

	built, err := builder.Build(context.Background(), testDay("a", "b", "c"))
	require.NoError(t, err)

	assert.Nil(t, built.POIs[1].ArrivalPath)
	assert.Nil(t, built.POIs[1].ArrivalDurationMinutes)
	require.NotNil(t, built.POIs[2].ArrivalPath)
}

func TestDayBuilderGeocodeFailureAbortsDay(t *testing.T) {
	geocoder := newStubGeocoder(coordTable("a", "c"))
	geocoder.fail["b"] = true
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)

	_, err := builder.Build(context.Background(), testDay("a", "b", "c"))
	require.Error(t, err)

	var geoErr *GeocodingFailed
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, 1, geoErr.Day)
	assert.Equal(t, 1, geoErr.POIIndex)
	assert.Equal(t, 0, router.calls, "no legs should be attempted after a geocoding failure")
}

func TestDayBuilderSkipsResolvedCoordinates(t *testing.T) {
	geocoder := newStubGeocoder(coordTable("b"))
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)

	day := testDay("a", "b")
	day.POIs[0].Coordinate = &models.Coordinate{Lat: 1, Lng: 2}

	_, err := builder.Build(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 1, geocoder.calls, "already resolved stops must not be geocoded again")
}
