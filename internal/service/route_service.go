package service

import (
	"context"
	"log"

	"github.com/wayfare/trip-backend-go/internal/models"
	"github.com/wayfare/trip-backend-go/internal/planner"
	"github.com/wayfare/trip-backend-go/internal/repository"
)

// RouteService handles route assembly and read paths
type RouteService struct {
	assembler   *planner.Assembler
	fallback    *planner.FallbackEnricher
	reconciler  *Reconciler
	routes      *repository.RouteRepository
	itineraries *repository.ItineraryRepository
}

// NewRouteService creates a new route service
func NewRouteService(
	assembler *planner.Assembler,
	fallback *planner.FallbackEnricher,
	reconciler *Reconciler,
	routes *repository.RouteRepository,
	itineraries *repository.ItineraryRepository,
) *RouteService {
	return &RouteService{
		assembler:   assembler,
		fallback:    fallback,
		reconciler:  reconciler,
		routes:      routes,
		itineraries: itineraries,
	}
}

// CreateRoute assembles and persists a new draft route
func (s *RouteService) CreateRoute(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error) {
	return s.assembler.Assemble(ctx, userID, req)
}

// ListRoutes returns the user's routes with canonical POI names
func (s *RouteService) ListRoutes(ctx context.Context, userID string, filter models.RouteFilter) ([]models.Route, int64, error) {
	routes, total, err := s.routes.ListByUser(userID, filter)
	if err != nil {
		return nil, 0, err
	}

	for i := range routes {
		s.reconciler.ReconcileRoute(ctx, &routes[i])
	}

	return routes, total, nil
}

// GetRoute returns one route, reconciling POI names and stitching in travel
// legs for routes stored without any path data
func (s *RouteService) GetRoute(ctx context.Context, userID, routeID string) (*models.Route, error) {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	if route.UserID != userID {
		return nil, ErrForbidden
	}

	s.reconciler.ReconcileRoute(ctx, route)

	if !route.HasAnyPath() {
		stored := copyDays(route.Days)
		if s.fallback.Enrich(ctx, route) {
			// The fallback re-orders stops for the response only. The stored
			// payload is structurally frozen outside DRAFT, so it keeps its
			// submitted stop order and just gains the stitched arrival fields.
			applyArrivalFields(stored, route.Days)
			if err := s.routes.UpdateDays(route.RouteID, stored); err != nil {
				log.Printf("[ROUTES] Failed to persist fallback enrichment: route=%s err=%v", route.RouteID, err)
			}
		}
	}

	return route, nil
}

// copyDays returns a day list whose POI slices can be reordered independently
// of the original
func copyDays(days []models.Day) []models.Day {
	out := make([]models.Day, len(days))
	for i, d := range days {
		out[i] = d
		out[i].POIs = append([]models.POI(nil), d.POIs...)
	}
	return out
}

// applyArrivalFields copies the arrival fields the fallback stitched onto the
// matching stops of the stored-order payload
func applyArrivalFields(stored, enriched []models.Day) {
	for di := range stored {
		if di >= len(enriched) {
			return
		}
		byID := make(map[string]*models.POI, len(enriched[di].POIs))
		for pi := range enriched[di].POIs {
			p := &enriched[di].POIs[pi]
			if p.ID != "" {
				byID[p.ID] = p
			}
		}
		for pi := range stored[di].POIs {
			p := &stored[di].POIs[pi]
			src, ok := byID[p.ID]
			if p.ID == "" || !ok {
				continue
			}
			p.ArrivalPath = src.ArrivalPath
			p.ArrivalDurationMinutes = src.ArrivalDurationMinutes
		}
	}
}

// ListItineraries returns the user's confirmed-store records
func (s *RouteService) ListItineraries(ctx context.Context, userID string) ([]models.Itinerary, error) {
	itineraries, err := s.itineraries.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	for i := range itineraries {
		s.reconciler.ReconcileItinerary(ctx, &itineraries[i])
	}

	return itineraries, nil
}

// GetItinerary returns one confirmed-store record
func (s *RouteService) GetItinerary(ctx context.Context, userID, itineraryID string) (*models.Itinerary, error) {
	it, err := s.itineraries.GetByID(itineraryID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrRouteNotFound
	}
	if it.UserID != userID {
		return nil, ErrForbidden
	}

	s.reconciler.ReconcileItinerary(ctx, it)
	return it, nil
}
