package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/wayfare/trip-backend-go/internal/models"
)

// Leg is one computed travel segment between two coordinates
type Leg struct {
	EncodedPath     string
	DurationMinutes float64
	DistanceMeters  float64
}

// Router computes the travel path between two coordinates for a travel mode
type Router interface {
	Route(ctx context.Context, origin, dest models.Coordinate, mode string) (*Leg, error)
}

// ErrDirectionsFailed is returned when the routing provider fails for a leg
type ErrDirectionsFailed struct {
	Origin models.Coordinate
	Dest   models.Coordinate
	Reason string
}

func (e *ErrDirectionsFailed) Error() string {
	return fmt.Sprintf("directions failed (%.5f,%.5f)->(%.5f,%.5f): %s",
		e.Origin.Lat, e.Origin.Lng, e.Dest.Lat, e.Dest.Lng, e.Reason)
}

type osrmRouter struct {
	baseURL    string
	httpClient *http.Client
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// NewOSRMRouter creates an OSRM-backed directions adapter
func NewOSRMRouter(baseURL string) Router {
	return &osrmRouter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// profileFor maps a travel mode to an OSRM routing profile. OSRM has no
// transit profile, so transit legs fall back to driving.
func profileFor(mode string) string {
	switch mode {
	case models.ModeWalking:
		return "foot"
	case models.ModeBicycling:
		return "bike"
	case models.ModeDriving, models.ModeTransit:
		return "driving"
	default:
		return "driving"
	}
}

func (r *osrmRouter) Route(ctx context.Context, origin, dest models.Coordinate, mode string) (*Leg, error) {
	// geometries=polyline keeps the path as the compact encoded string the
	// clients render directly
	queryURL := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=polyline",
		r.baseURL, profileFor(mode), origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrDirectionsFailed{Origin: origin, Dest: dest, Reason: err.Error()}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Printf("[OSRM] Request failed: mode=%s err=%v", mode, err)
		return nil, &ErrDirectionsFailed{Origin: origin, Dest: dest, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[OSRM] Provider error: status=%d body=%s", resp.StatusCode, string(body))
		return nil, &ErrDirectionsFailed{
			Origin: origin,
			Dest:   dest,
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var osrmResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return nil, &ErrDirectionsFailed{Origin: origin, Dest: dest, Reason: err.Error()}
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		return nil, &ErrDirectionsFailed{Origin: origin, Dest: dest, Reason: fmt.Sprintf("OSRM code %s", osrmResp.Code)}
	}

	best := osrmResp.Routes[0]
	return &Leg{
		EncodedPath:     best.Geometry,
		DurationMinutes: best.Duration / 60.0,
		DistanceMeters:  best.Distance,
	}, nil
}
