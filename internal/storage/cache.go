// Package storage is the local ledger cache: a small SQLite key-value table
// holding the serialized document under a versioned key. The cache is
// advisory, never authoritative: every failure here degrades to a cache
// miss or a dropped write, and nothing ever reaches the caller as an error.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"comeback/internal/core"

	_ "modernc.org/sqlite"
)

const (
	// StateKey is the versioned key the current schema writes under.
	StateKey = "creditComebackTracker_v2"
	// LegacyStateKey is the pre-category schema key, read once as migration
	// input and never written back.
	LegacyStateKey = "creditComebackTracker_v1"
)

type Cache struct {
	db *sql.DB
}

func NewCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run cache migrations: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Read returns the cached ledger for a user, or false when nothing usable
// is cached. The current key is tried first, then the legacy key. Corrupt
// or unreadable values count as absent.
func (c *Cache) Read(ctx context.Context, userID string) (*core.Ledger, bool) {
	for _, key := range []string{stateKey(StateKey, userID), stateKey(LegacyStateKey, userID)} {
		var value string
		err := c.db.QueryRowContext(ctx,
			`SELECT value FROM tracker_state WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "Local cache read failed, treating as miss",
				"key", key, "error", err)
			continue
		}
		doc, err := core.DecodeLedger([]byte(value))
		if err != nil {
			slog.WarnContext(ctx, "Cached document is corrupt, treating as miss",
				"key", key, "error", err)
			continue
		}
		return doc, true
	}
	return nil, false
}

// Write stores the ledger under the current versioned key. Best effort:
// failures are logged and swallowed so a broken cache can never block the
// application.
func (c *Cache) Write(ctx context.Context, userID string, doc *core.Ledger) {
	data, err := doc.Encode()
	if err != nil {
		slog.WarnContext(ctx, "Failed to encode ledger for local cache", "error", err)
		return
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO tracker_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		stateKey(StateKey, userID), string(data))
	if err != nil {
		slog.WarnContext(ctx, "Local cache write failed, continuing",
			"user_id", userID, "error", err)
	}
}

func stateKey(version, userID string) string {
	return version + ":" + userID
}
