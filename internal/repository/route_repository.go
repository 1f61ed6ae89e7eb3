package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wayfare/trip-backend-go/internal/models"
)

// RouteRepository handles database operations for the draft route store
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `route_id, user_id, title, destination, status, optimize,
	start_date, end_date, itinerary_id, days_json, created_at, updated_at`

// Create persists a newly assembled route
func (r *RouteRepository) Create(route *models.Route) error {
	daysJSON, err := json.Marshal(route.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal days: %w", err)
	}

	query := `INSERT INTO route_drafts (` + routeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		route.RouteID, route.UserID, route.Title, route.Destination, route.Status,
		boolToInt(route.Optimize), route.StartDate, route.EndDate, route.ItineraryID,
		string(daysJSON), route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert route: %w", err)
	}

	return nil
}

// GetByID retrieves a single route by id
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM route_drafts WHERE route_id = ?`
	route, err := r.scanRoute(r.db.QueryRow(query, routeID))
	if err != nil {
		return nil, err
	}
	return route, nil
}

// ListByUser retrieves a user's routes with filtering and pagination
func (r *RouteRepository) ListByUser(userID string, filter models.RouteFilter) ([]models.Route, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM route_drafts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	filter.Normalize()
	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT ` + routeColumns + ` FROM route_drafts` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			return nil, 0, err
		}
		routes = append(routes, *route)
	}

	return routes, total, nil
}

// UpdateStatusTx sets a route's status within a transaction
func (r *RouteRepository) UpdateStatusTx(tx *sql.Tx, routeID, status string) error {
	res, err := tx.Exec(`UPDATE route_drafts SET status = ?, updated_at = ? WHERE route_id = ?`,
		status, time.Now().UTC(), routeID)
	if err != nil {
		return fmt.Errorf("failed to update route status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("route %s not found for status update", routeID)
	}
	return nil
}

// DemoteMainTx demotes every MAIN route of the user to CONFIRMED, except the
// given route. Demotion must land in the same transaction as the matching
// promotion so a reader never observes two MAIN routes.
func (r *RouteRepository) DemoteMainTx(tx *sql.Tx, userID, exceptRouteID string) error {
	_, err := tx.Exec(`UPDATE route_drafts SET status = ?, updated_at = ?
		WHERE user_id = ? AND status = ? AND route_id != ?`,
		models.StatusConfirmed, time.Now().UTC(), userID, models.StatusMain, exceptRouteID)
	if err != nil {
		return fmt.Errorf("failed to demote main routes: %w", err)
	}
	return nil
}

// SetItineraryRefTx writes the confirmed-store cross-reference onto the draft
// record once migrated
func (r *RouteRepository) SetItineraryRefTx(tx *sql.Tx, routeID, itineraryID string) error {
	_, err := tx.Exec(`UPDATE route_drafts SET itinerary_id = ?, updated_at = ? WHERE route_id = ?`,
		itineraryID, time.Now().UTC(), routeID)
	if err != nil {
		return fmt.Errorf("failed to set itinerary reference: %w", err)
	}
	return nil
}

// UpdateDays rewrites a route's day payload (used by the lazy enrichment
// paths; structural edits only happen while DRAFT)
func (r *RouteRepository) UpdateDays(routeID string, days []models.Day) error {
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal days: %w", err)
	}
	_, err = r.db.Exec(`UPDATE route_drafts SET days_json = ?, updated_at = ? WHERE route_id = ?`,
		string(daysJSON), time.Now().UTC(), routeID)
	if err != nil {
		return fmt.Errorf("failed to update days: %w", err)
	}
	return nil
}

// Delete removes a route outright
func (r *RouteRepository) Delete(routeID string) error {
	_, err := r.db.Exec(`DELETE FROM route_drafts WHERE route_id = ?`, routeID)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	return nil
}

// CountUnmigratedMainTx counts the user's MAIN routes that have no confirmed-
// store cross-reference yet. A migrated draft and its itinerary mirror one
// logical route, so migrated drafts count through their itinerary instead.
func (r *RouteRepository) CountUnmigratedMainTx(tx *sql.Tx, userID string) (int, error) {
	var count int
	err := tx.QueryRow(`SELECT COUNT(*) FROM route_drafts WHERE user_id = ? AND status = ? AND itinerary_id = ''`,
		userID, models.StatusMain).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count main routes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *RouteRepository) scanRoute(row rowScanner) (*models.Route, error) {
	var route models.Route
	var optimize int
	var daysJSON string

	err := row.Scan(
		&route.RouteID, &route.UserID, &route.Title, &route.Destination, &route.Status,
		&optimize, &route.StartDate, &route.EndDate, &route.ItineraryID,
		&daysJSON, &route.CreatedAt, &route.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}

	route.Optimize = optimize != 0
	if err := json.Unmarshal([]byte(daysJSON), &route.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal days: %w", err)
	}

	return &route, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
