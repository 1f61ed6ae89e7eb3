package service

import (
	"context"
	"log"
	"strings"

	"github.com/wayfare/trip-backend-go/internal/models"
	"github.com/wayfare/trip-backend-go/internal/places"
)

// placeIDPrefix is the optional resource prefix some clients attach to
// external place ids; "X" and "places/X" name the same directory entry
const placeIDPrefix = "places/"

// Reconciler lazily replaces cached POI names in stored payloads with the
// canonical names from the place directory. It runs on read, never on write,
// so it tolerates a directory updated out of band.
type Reconciler struct {
	directory places.Directory
}

// NewReconciler creates a POI name reconciler
func NewReconciler(directory places.Directory) *Reconciler {
	return &Reconciler{directory: directory}
}

// NormalizePlaceID strips the optional resource prefix from an external place id
func NormalizePlaceID(id string) string {
	return strings.TrimPrefix(id, placeIDPrefix)
}

// ReconcileRoute rewrites every POI whose stored name differs from the
// directory's canonical name. Directory failures are logged and leave the
// stored names as they are; this is a read-path nicety, not a correctness step.
func (r *Reconciler) ReconcileRoute(ctx context.Context, route *models.Route) bool {
	ids := make(map[string]struct{})
	for _, day := range route.Days {
		for _, poi := range day.POIs {
			if poi.ExternalPlaceID != "" {
				ids[NormalizePlaceID(poi.ExternalPlaceID)] = struct{}{}
			}
		}
	}
	if len(ids) == 0 {
		return false
	}

	found, err := r.lookup(ctx, ids)
	if err != nil {
		log.Printf("[RECONCILE] Directory lookup failed: route=%s err=%v", route.RouteID, err)
		return false
	}

	changed := false
	for di := range route.Days {
		for pi := range route.Days[di].POIs {
			poi := &route.Days[di].POIs[pi]
			if poi.ExternalPlaceID == "" {
				continue
			}
			entry, ok := found[NormalizePlaceID(poi.ExternalPlaceID)]
			if ok && entry.Name != "" && entry.Name != poi.Name {
				poi.Name = entry.Name
				changed = true
			}
		}
	}

	return changed
}

// ReconcileItinerary does the same rewrite for a confirmed-store record
func (r *Reconciler) ReconcileItinerary(ctx context.Context, it *models.Itinerary) bool {
	ids := make(map[string]struct{})
	for _, plan := range it.DayPlans {
		for _, act := range plan.Activities {
			if act.PlaceID != "" {
				ids[NormalizePlaceID(act.PlaceID)] = struct{}{}
			}
		}
	}
	if len(ids) == 0 {
		return false
	}

	found, err := r.lookup(ctx, ids)
	if err != nil {
		log.Printf("[RECONCILE] Directory lookup failed: itinerary=%s err=%v", it.ItineraryID, err)
		return false
	}

	changed := false
	for di := range it.DayPlans {
		for ai := range it.DayPlans[di].Activities {
			act := &it.DayPlans[di].Activities[ai]
			if act.PlaceID == "" {
				continue
			}
			entry, ok := found[NormalizePlaceID(act.PlaceID)]
			if ok && entry.Name != "" && entry.Name != act.Name {
				act.Name = entry.Name
				changed = true
			}
		}
	}

	return changed
}

func (r *Reconciler) lookup(ctx context.Context, idSet map[string]struct{}) (map[string]places.Place, error) {
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	return r.directory.LookupMany(ctx, ids)
}
