package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wayfare/trip-backend-go/internal/models"
)

// ItineraryRepository handles database operations for the confirmed route store
type ItineraryRepository struct {
	db *sql.DB
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db *sql.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

const itineraryColumns = `itinerary_id, user_id, route_id, title, destination, status,
	duration_days, start_location, start_date, end_date, day_plans_json, created_at, updated_at`

// CreateTx persists a migrated itinerary within a transaction, so migration
// and the matching status change commit or roll back together
func (r *ItineraryRepository) CreateTx(tx *sql.Tx, it *models.Itinerary) error {
	plansJSON, err := json.Marshal(it.DayPlans)
	if err != nil {
		return fmt.Errorf("failed to marshal day plans: %w", err)
	}

	query := `INSERT INTO itineraries (` + itineraryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.Exec(query,
		it.ItineraryID, it.UserID, it.RouteID, it.Title, it.Destination, it.Status,
		it.DurationDays, it.StartLocationText, it.StartDate, it.EndDate,
		string(plansJSON), it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert itinerary: %w", err)
	}

	return nil
}

// GetByID retrieves a single itinerary by id
func (r *ItineraryRepository) GetByID(itineraryID string) (*models.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE itinerary_id = ?`
	return r.scanItinerary(r.db.QueryRow(query, itineraryID))
}

// GetByRouteID retrieves the itinerary migrated from the given draft route
func (r *ItineraryRepository) GetByRouteID(routeID string) (*models.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE route_id = ?`
	return r.scanItinerary(r.db.QueryRow(query, routeID))
}

// ListByUser retrieves all of a user's itineraries, newest first
func (r *ItineraryRepository) ListByUser(userID string) ([]models.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	var itineraries []models.Itinerary
	for rows.Next() {
		it, err := r.scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, *it)
	}

	return itineraries, nil
}

// UpdateStatusTx sets an itinerary's status within a transaction
func (r *ItineraryRepository) UpdateStatusTx(tx *sql.Tx, itineraryID, status string) error {
	res, err := tx.Exec(`UPDATE itineraries SET status = ?, updated_at = ? WHERE itinerary_id = ?`,
		status, time.Now().UTC(), itineraryID)
	if err != nil {
		return fmt.Errorf("failed to update itinerary status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("itinerary %s not found for status update", itineraryID)
	}
	return nil
}

// DemoteMainTx demotes every MAIN itinerary of the user to CONFIRMED, except
// the given one. The MAIN invariant is user-scoped across both stores, so this
// runs even when the promoted route lives in the draft store.
func (r *ItineraryRepository) DemoteMainTx(tx *sql.Tx, userID, exceptItineraryID string) error {
	_, err := tx.Exec(`UPDATE itineraries SET status = ?, updated_at = ?
		WHERE user_id = ? AND status = ? AND itinerary_id != ?`,
		models.StatusConfirmed, time.Now().UTC(), userID, models.StatusMain, exceptItineraryID)
	if err != nil {
		return fmt.Errorf("failed to demote main itineraries: %w", err)
	}
	return nil
}

// CountMainTx counts the user's MAIN itineraries in the confirmed store
func (r *ItineraryRepository) CountMainTx(tx *sql.Tx, userID string) (int, error) {
	var count int
	err := tx.QueryRow(`SELECT COUNT(*) FROM itineraries WHERE user_id = ? AND status = ?`,
		userID, models.StatusMain).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count main itineraries: %w", err)
	}
	return count, nil
}

func (r *ItineraryRepository) scanItinerary(row rowScanner) (*models.Itinerary, error) {
	var it models.Itinerary
	var plansJSON string

	err := row.Scan(
		&it.ItineraryID, &it.UserID, &it.RouteID, &it.Title, &it.Destination, &it.Status,
		&it.DurationDays, &it.StartLocationText, &it.StartDate, &it.EndDate,
		&plansJSON, &it.CreatedAt, &it.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan itinerary: %w", err)
	}

	if err := json.Unmarshal([]byte(plansJSON), &it.DayPlans); err != nil {
		return nil, fmt.Errorf("failed to unmarshal day plans: %w", err)
	}

	return &it, nil
}
