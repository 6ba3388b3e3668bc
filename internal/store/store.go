// Package store persists analysis runs in a local SQLite database so
// repeated requests for the same input skip the language model.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is swapped in tests to inject failures.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	key        TEXT NOT NULL,
	provider   TEXT NOT NULL,
	model      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	payload    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_key ON runs(key);
`

// Store is a cache of completed analysis runs.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and parent directories) if needed
// and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Key derives the cache key for a run: a hex SHA-256 over the kind,
// provider, model and input, so a model change invalidates old entries.
func Key(kind, provider, model, input string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the newest cached payload for key, or (nil, false) on a
// cache miss.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM runs WHERE key = ? ORDER BY created_at DESC LIMIT 1`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return payload, true, nil
}

// Put stores a run payload under key.
func (s *Store) Put(kind, key, provider, model string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, kind, key, provider, model, created_at, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), kind, key, provider, model, time.Now().UTC(), payload,
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge removes every cached run and reports how many were deleted.
func (s *Store) Purge() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes the cache contents per run kind.
type Stats struct {
	Total  int64
	ByKind map[string]int64
}

// Stat counts cached runs.
func (s *Store) Stat() (*Stats, error) {
	stats := &Stats{ByKind: make(map[string]int64)}
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM runs GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		stats.ByKind[kind] = n
		stats.Total += n
	}
	return stats, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
