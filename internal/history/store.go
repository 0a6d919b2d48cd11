// Package history persists scene-metrics snapshots to SQLite. Only
// derived tallies (device counts, connection counts) are stored, never
// the topology itself, which lives and dies with the session.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"topovista/internal/domain"

	_ "modernc.org/sqlite"
)

// Snapshot is one recorded tally.
type Snapshot struct {
	ID             int64                   `json:"id"`
	TakenAt        time.Time               `json:"taken_at"`
	TotalDevices   int                     `json:"total_devices"`
	VisibleDevices int                     `json:"visible_devices"`
	Connections    int                     `json:"connections"`
	ByCategory     map[domain.Category]int `json:"by_category,omitempty"`
}

// Store is the SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path and runs migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at DATETIME NOT NULL,
		total_devices INTEGER NOT NULL,
		visible_devices INTEGER NOT NULL,
		connections INTEGER NOT NULL,
		by_category JSON
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a snapshot and returns it with the assigned ID.
func (s *Store) Record(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}

	var byCategory []byte
	if snap.ByCategory != nil {
		data, err := json.Marshal(snap.ByCategory)
		if err != nil {
			return snap, fmt.Errorf("marshal category counts: %w", err)
		}
		byCategory = data
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (taken_at, total_devices, visible_devices, connections, by_category)
		VALUES (?, ?, ?, ?, ?)
	`, snap.TakenAt, snap.TotalDevices, snap.VisibleDevices, snap.Connections, byCategory)
	if err != nil {
		return snap, fmt.Errorf("insert snapshot: %w", err)
	}

	snap.ID, err = res.LastInsertId()
	if err != nil {
		return snap, fmt.Errorf("snapshot id: %w", err)
	}
	return snap, nil
}

// List returns the most recent snapshots, newest first, capped at
// limit (or 100 when limit is not positive).
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, taken_at, total_devices, visible_devices, connections, by_category
		FROM snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var byCategory []byte
		if err := rows.Scan(&snap.ID, &snap.TakenAt, &snap.TotalDevices,
			&snap.VisibleDevices, &snap.Connections, &byCategory); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if len(byCategory) > 0 {
			if err := json.Unmarshal(byCategory, &snap.ByCategory); err != nil {
				return nil, fmt.Errorf("unmarshal category counts: %w", err)
			}
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
