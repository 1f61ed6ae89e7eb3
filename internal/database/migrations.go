package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full ordered schema history. Both route stores live in
// one database so that status changes can span them in a single transaction.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_route_drafts",
		SQL: `
			CREATE TABLE IF NOT EXISTS route_drafts (
				route_id     TEXT PRIMARY KEY,
				user_id      TEXT NOT NULL,
				title        TEXT NOT NULL DEFAULT '',
				destination  TEXT NOT NULL DEFAULT '',
				status       TEXT NOT NULL DEFAULT 'DRAFT',
				optimize     INTEGER NOT NULL DEFAULT 0,
				start_date   TEXT NOT NULL DEFAULT '',
				end_date     TEXT NOT NULL DEFAULT '',
				itinerary_id TEXT NOT NULL DEFAULT '',
				days_json    TEXT NOT NULL DEFAULT '[]',
				created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_route_drafts_user ON route_drafts(user_id);
			CREATE INDEX IF NOT EXISTS idx_route_drafts_user_status ON route_drafts(user_id, status);
		`,
	},
	{
		Version: 2,
		Name:    "create_itineraries",
		SQL: `
			CREATE TABLE IF NOT EXISTS itineraries (
				itinerary_id   TEXT PRIMARY KEY,
				user_id        TEXT NOT NULL,
				route_id       TEXT NOT NULL DEFAULT '',
				title          TEXT NOT NULL DEFAULT '',
				destination    TEXT NOT NULL DEFAULT '',
				status         TEXT NOT NULL DEFAULT 'CONFIRMED',
				duration_days  INTEGER NOT NULL DEFAULT 0,
				start_location TEXT NOT NULL DEFAULT '',
				start_date     TEXT NOT NULL DEFAULT '',
				end_date       TEXT NOT NULL DEFAULT '',
				day_plans_json TEXT NOT NULL DEFAULT '[]',
				created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_itineraries_user ON itineraries(user_id);
			CREATE INDEX IF NOT EXISTS idx_itineraries_user_status ON itineraries(user_id, status);
			CREATE INDEX IF NOT EXISTS idx_itineraries_route ON itineraries(route_id);
		`,
	},
}

// Migrate applies all pending migrations in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, m := range pending {
		if err := Transaction(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		}); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}
