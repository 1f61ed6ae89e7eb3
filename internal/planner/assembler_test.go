package planner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/trip-backend-go/internal/models"
)

// capturingStore records persisted routes without a real database
type capturingStore struct {
	routes []*models.Route
}

func (s *capturingStore) Create(route *models.Route) error {
	s.routes = append(s.routes, route)
	return nil
}

func assemblyRequest() models.CreateRouteRequest {
	return models.CreateRouteRequest{
		Destination: "Kyoto",
		Days: []models.CreateDayRequest{
			{
				DayNumber:  2,
				TravelMode: models.ModeWalking,
				POIs: []models.CreatePOIRequest{
					{ID: "p3", Name: "c", Address: "c"},
					{ID: "p4", Name: "d", Address: "d"},
				},
			},
			{
				DayNumber:  1,
				TravelMode: models.ModeDriving,
				POIs: []models.CreatePOIRequest{
					{ID: "p1", Name: "a", Address: "a"},
					{ID: "p2", Name: "b", Address: "b"},
				},
			},
		},
	}
}

func newTestAssembler(store RouteStore) (*Assembler, *stubGeocoder, *stubRouter) {
	geocoder := newStubGeocoder(coordTable("a", "b", "c", "d", "station"))
	router := newStubRouter()
	builder := NewDayBuilder(geocoder, router)
	return NewAssembler(builder, geocoder, store), geocoder, router
}

func TestAssembleSortsDaysByNumber(t *testing.T) {
	store := &capturingStore{}
	assembler, _, _ := newTestAssembler(store)

	route, err := assembler.Assemble(context.Background(), "user-1", assemblyRequest())
	require.NoError(t, err)

	require.Len(t, route.Days, 2)
	assert.Equal(t, 1, route.Days[0].DayNumber)
	assert.Equal(t, 2, route.Days[1].DayNumber)
	assert.Equal(t, models.StatusDraft, route.Status)
	assert.NotEmpty(t, route.RouteID)
	require.Len(t, store.routes, 1)
}

func TestAssembleFailedDayPersistsNothing(t *testing.T) {
	store := &capturingStore{}
	assembler, geocoder, _ := newTestAssembler(store)
	geocoder.fail["c"] = true

	_, err := assembler.Assemble(context.Background(), "user-1", assemblyRequest())
	require.Error(t, err)

	var assemblyErr *AssemblyFailed
	require.ErrorAs(t, err, &assemblyErr)
	assert.Empty(t, store.routes, "a failed day must leave nothing persisted")
}

func TestAssembleLegFailureStillSucceeds(t *testing.T) {
	store := &capturingStore{}
	assembler, geocoder, router := newTestAssembler(store)

	aCoord, _ := geocoder.Resolve(context.Background(), "a")
	bCoord, _ := geocoder.Resolve(context.Background(), "b")
	router.failLegs[legKey(*aCoord, *bCoord)] = true

	route, err := assembler.Assemble(context.Background(), "user-1", assemblyRequest())
	require.NoError(t, err)

	day1 := route.Days[0]
	assert.Nil(t, day1.POIs[1].ArrivalPath, "the failed leg stays empty")

	day2 := route.Days[1]
	require.NotNil(t, day2.POIs[1].ArrivalPath, "other legs are still populated")
}

func TestAssembleSharedStartOnlyForDaysWithoutOwn(t *testing.T) {
	store := &capturingStore{}
	assembler, geocoder, _ := newTestAssembler(store)

	req := assemblyRequest()
	req.StartLocation = "station"
	req.Days[0].StartLocation = "c" // day 2 brings its own start

	route, err := assembler.Assemble(context.Background(), "user-1", req)
	require.NoError(t, err)

	shared, _ := geocoder.Resolve(context.Background(), "station")
	own, _ := geocoder.Resolve(context.Background(), "c")

	require.NotNil(t, route.Days[0].StartCoordinate)
	assert.Equal(t, *shared, *route.Days[0].StartCoordinate)
	require.NotNil(t, route.Days[1].StartCoordinate)
	assert.Equal(t, *own, *route.Days[1].StartCoordinate)
}

func TestAssembleSharedStartGeocodeFailureFailsAssembly(t *testing.T) {
	store := &capturingStore{}
	assembler, geocoder, _ := newTestAssembler(store)
	geocoder.fail["station"] = true

	req := assemblyRequest()
	req.StartLocation = "station"

	_, err := assembler.Assemble(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Empty(t, store.routes)
}

func TestAssembleDeterministicPayload(t *testing.T) {
	store := &capturingStore{}
	assembler, _, _ := newTestAssembler(store)

	first, err := assembler.Assemble(context.Background(), "user-1", assemblyRequest())
	require.NoError(t, err)
	second, err := assembler.Assemble(context.Background(), "user-1", assemblyRequest())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Days)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Days)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON, "identical input and deterministic adapters must yield identical payload")
}
