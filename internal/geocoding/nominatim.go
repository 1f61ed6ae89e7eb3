package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wayfare/trip-backend-go/internal/models"
)

// Geocoder resolves a free-text place or address to a coordinate pair
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*models.Coordinate, error)
}

// ErrGeocodingFailed is returned when an address cannot be resolved
type ErrGeocodingFailed struct {
	Address string
	Reason  string
}

func (e *ErrGeocodingFailed) Error() string {
	return fmt.Sprintf("geocoding failed for %q: %s", e.Address, e.Reason)
}

type nominatimGeocoder struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimGeocoder creates a Nominatim-backed geocoder. The public
// Nominatim instance allows one request per second, so lookups are ticked.
func NewNominatimGeocoder(baseURL, userAgent string) Geocoder {
	return &nominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Second),
	}
}

func (g *nominatimGeocoder) Resolve(ctx context.Context, address string) (*models.Coordinate, error) {
	select {
	case <-g.rateLimiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	queryURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[GEOCODING] Request failed: address=%s err=%v", address, err)
		return nil, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[GEOCODING] Provider error: address=%s status=%d body=%s", address, resp.StatusCode, string(body))
		return nil, &ErrGeocodingFailed{
			Address: address,
			Reason:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}

	if len(results) == 0 {
		return nil, &ErrGeocodingFailed{Address: address, Reason: "no results found"}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, &ErrGeocodingFailed{Address: address, Reason: "invalid latitude"}
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, &ErrGeocodingFailed{Address: address, Reason: "invalid longitude"}
	}

	log.Printf("[GEOCODING] Resolved: address=%s lat=%.6f lng=%.6f", address, lat, lng)
	return &models.Coordinate{Lat: lat, Lng: lng}, nil
}
