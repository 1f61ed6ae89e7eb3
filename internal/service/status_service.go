package service

import (
	"database/sql"
	"log"

	"github.com/wayfare/trip-backend-go/internal/database"
	"github.com/wayfare/trip-backend-go/internal/models"
	"github.com/wayfare/trip-backend-go/internal/repository"
)

// allowedTransitions encodes the route lifecycle: DRAFT -> CONFIRMED,
// DRAFT -> MAIN, CONFIRMED -> MAIN and MAIN -> CONFIRMED (demotion). DRAFT may
// additionally be deleted; CONFIRMED and MAIN are retained.
var allowedTransitions = map[string]map[string]bool{
	models.StatusDraft:     {models.StatusConfirmed: true, models.StatusMain: true},
	models.StatusConfirmed: {models.StatusMain: true},
	models.StatusMain:      {models.StatusConfirmed: true},
}

// StatusService is the route status machine. Every status-changing operation
// runs inside one transaction spanning both stores, which is what keeps the
// at-most-one-MAIN-per-user invariant from ever being observable as violated.
type StatusService struct {
	db          *sql.DB
	routes      *repository.RouteRepository
	itineraries *repository.ItineraryRepository
}

// NewStatusService creates a new status machine service
func NewStatusService(db *sql.DB, routes *repository.RouteRepository, itineraries *repository.ItineraryRepository) *StatusService {
	return &StatusService{db: db, routes: routes, itineraries: itineraries}
}

// ChangeStatus moves a route to the target status on behalf of its owner
func (s *StatusService) ChangeStatus(userID, routeID, target string) (*models.Route, error) {
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

	if route.Status == target {
		return route, nil
	}
	if !allowedTransitions[route.Status][target] {
		return nil, ErrInvalidTransition
	}

	switch target {
	case models.StatusMain:
		err = s.promote(route)
	case models.StatusConfirmed:
		err = s.confirm(route)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	return s.routes.GetByID(routeID)
}

// promote makes the route the user's single MAIN route. Demotions of any
// previous MAIN happen in both stores before the target is promoted; if the
// transaction dies between the two, the rollback leaves the previous state
// intact, and a non-transactional retry can only land on the zero-MAIN side,
// never on two MAINs.
func (s *StatusService) promote(route *models.Route) error {
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		if err := s.routes.DemoteMainTx(tx, route.UserID, route.RouteID); err != nil {
			return err
		}

		itineraryID := route.ItineraryID
		if itineraryID == "" {
			// A route may only become MAIN once it lives in the confirmed
			// store; migrate it as part of the same operation
			it := BuildItinerary(route, models.StatusMain)
			if err := s.itineraries.CreateTx(tx, it); err != nil {
				return &MigrationFailed{RouteID: route.RouteID, Err: err}
			}
			if err := s.routes.SetItineraryRefTx(tx, route.RouteID, it.ItineraryID); err != nil {
				return &MigrationFailed{RouteID: route.RouteID, Err: err}
			}
			itineraryID = it.ItineraryID
		} else {
			if err := s.itineraries.UpdateStatusTx(tx, itineraryID, models.StatusMain); err != nil {
				return err
			}
		}

		// The invariant is user-scoped across stores, not store-scoped: demote
		// in the confirmed store too, even though the target came from drafts
		if err := s.itineraries.DemoteMainTx(tx, route.UserID, itineraryID); err != nil {
			return err
		}

		if err := s.routes.UpdateStatusTx(tx, route.RouteID, models.StatusMain); err != nil {
			return err
		}

		return s.assertSingleMain(tx, route.UserID)
	})
	if err != nil {
		log.Printf("[STATUS] Promotion failed: route=%s user=%s err=%v", route.RouteID, route.UserID, err)
		return err
	}

	log.Printf("[STATUS] Route promoted to MAIN: route=%s user=%s", route.RouteID, route.UserID)
	return nil
}

// confirm finalizes a draft, or demotes a MAIN route back to CONFIRMED
func (s *StatusService) confirm(route *models.Route) error {
	return database.Transaction(s.db, func(tx *sql.Tx) error {
		if err := s.routes.UpdateStatusTx(tx, route.RouteID, models.StatusConfirmed); err != nil {
			return err
		}
		if route.ItineraryID != "" {
			if err := s.itineraries.UpdateStatusTx(tx, route.ItineraryID, models.StatusConfirmed); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRoute removes a route outright. Only drafts may be deleted; CONFIRMED
// and MAIN routes are retained.
func (s *StatusService) DeleteRoute(userID, routeID string) error {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return err
	}
	if route == nil {
		return ErrRouteNotFound
	}
	if route.UserID != userID {
		return ErrForbidden
	}
	if route.Status != models.StatusDraft {
		return ErrNotDraft
	}

	return s.routes.Delete(routeID)
}

// assertSingleMain verifies the cross-store invariant after a promotion. A
// migrated draft and its itinerary mirror the same logical route, so migrated
// drafts are counted through their itinerary only.
func (s *StatusService) assertSingleMain(tx *sql.Tx, userID string) error {
	unmigrated, err := s.routes.CountUnmigratedMainTx(tx, userID)
	if err != nil {
		return err
	}

	itinerariesMain, err := s.itineraries.CountMainTx(tx, userID)
	if err != nil {
		return err
	}

	if total := unmigrated + itinerariesMain; total != 1 {
		return &InvariantViolation{UserID: userID, Count: total}
	}
	return nil
}
