package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Place is a directory entry keyed by its stable external identifier
type Place struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory is the external place directory. Lookups are read-only; the
// backend never creates or deletes directory entries.
type Directory interface {
	LookupMany(ctx context.Context, ids []string) (map[string]Place, error)
}

// ErrLookupFailed is returned when the directory cannot be queried
type ErrLookupFailed struct {
	Reason string
}

func (e *ErrLookupFailed) Error() string {
	return fmt.Sprintf("place directory lookup failed: %s", e.Reason)
}

type httpDirectory struct {
	baseURL    string
	httpClient *http.Client
}

type lookupResponse struct {
	Places []Place `json:"places"`
}

// NewHTTPDirectory creates a place directory client against the directory
// service's batch lookup endpoint
func NewHTTPDirectory(baseURL string) Directory {
	return &httpDirectory{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *httpDirectory) LookupMany(ctx context.Context, ids []string) (map[string]Place, error) {
	if len(ids) == 0 {
		return map[string]Place{}, nil
	}

	queryURL := fmt.Sprintf("%s/v1/places:batchGet?ids=%s", d.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrLookupFailed{Reason: err.Error()}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &ErrLookupFailed{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ErrLookupFailed{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ErrLookupFailed{Reason: err.Error()}
	}

	found := make(map[string]Place, len(decoded.Places))
	for _, p := range decoded.Places {
		found[p.ID] = p
	}

	return found, nil
}
