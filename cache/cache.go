// ABOUTME: SQLite-backed snapshot cache and activity storage
// ABOUTME: Persists the last good fetch per entity so offline runs degrade to real data
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"

	"salespad/activity"
)

// Cache wraps the local SQLite database. One writer at a time; opened with
// WAL mode and a single connection to avoid database locked errors.
type Cache struct {
	db *sql.DB
}

// DefaultPath returns the XDG-compliant cache database location.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "salespad", "cache.db")
}

// Open opens (and initializes) the cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		entity TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		verb TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		summary TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at DESC);
	`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores the given collection as the last good fetch for entity.
func (c *Cache) SaveSnapshot(entity string, collection interface{}) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO snapshots (entity, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, entity, string(payload), time.Now())
	return err
}

// LoadSnapshot decodes the stored collection for entity into out. Returns
// false when no snapshot exists.
func (c *Cache) LoadSnapshot(entity string, out interface{}) (bool, error) {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM snapshots WHERE entity = ?`, entity).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return true, nil
}

// SnapshotTime returns when the entity snapshot was last saved, or nil if
// there is none.
func (c *Cache) SnapshotTime(entity string) (*time.Time, error) {
	var savedAt time.Time
	err := c.db.QueryRow(`SELECT saved_at FROM snapshots WHERE entity = ?`, entity).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &savedAt, nil
}

// DeleteSnapshot removes the stored collection for entity.
func (c *Cache) DeleteSnapshot(entity string) error {
	_, err := c.db.Exec(`DELETE FROM snapshots WHERE entity = ?`, entity)
	return err
}

// SaveActivity implements activity.Sink.
func (c *Cache) SaveActivity(a activity.Activity) error {
	_, err := c.db.Exec(`
		INSERT INTO activities (id, verb, entity, entity_id, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Verb), a.Entity, a.EntityID, a.Summary, a.CreatedAt)
	return err
}

// ListActivities implements activity.Sink, newest first.
func (c *Cache) ListActivities(limit int) ([]activity.Activity, error) {
	rows, err := c.db.Query(`
		SELECT id, verb, entity, entity_id, summary, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []activity.Activity
	for rows.Next() {
		var a activity.Activity
		var verb string
		var summary sql.NullString
		if err := rows.Scan(&a.ID, &verb, &a.Entity, &a.EntityID, &summary, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Verb = activity.Verb(verb)
		if summary.Valid {
			a.Summary = summary.String
		}
		entries = append(entries, a)
	}

	return entries, rows.Err()
}
