package planner

import (
	"fmt"
	"strings"
)

// GeocodingFailed aborts an entire day: downstream legs need the missing
// coordinate, so a geocoding failure is never swallowed. POIIndex is -1 when
// the day's start location (rather than a stop) failed to resolve.
type GeocodingFailed struct {
	Day      int
	POIIndex int
	Err      error
}

func (e *GeocodingFailed) Error() string {
	if e.POIIndex < 0 {
		return fmt.Sprintf("day %d: start location geocoding failed: %v", e.Day, e.Err)
	}
	return fmt.Sprintf("day %d: geocoding failed for poi %d: %v", e.Day, e.POIIndex, e.Err)
}

func (e *GeocodingFailed) Unwrap() error { return e.Err }

// AssemblyFailed means at least one day failed to build. The whole request
// fails and nothing is persisted; a caller never receives a route with a day
// silently missing.
type AssemblyFailed struct {
	Errs []error
}

func (e *AssemblyFailed) Error() string {
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Error()
	}
	return "route assembly failed: " + strings.Join(parts, "; ")
}

func (e *AssemblyFailed) Unwrap() error {
	if len(e.Errs) > 0 {
		return e.Errs[0]
	}
	return nil
}
