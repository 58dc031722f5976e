package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"showdown_stats/internal/app"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ReplayStore caches fetched replay documents in a local sqlite database so
// repeated runs over overlapping date ranges skip refetching.
type ReplayStore struct {
	db *sql.DB
}

// NewReplayStore opens (or creates) the cache database at the given path
func NewReplayStore(path string) (*ReplayStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay cache: %w", err)
	}

	s := &ReplayStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// init creates the schema
func (s *ReplayStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS replays (
			id         TEXT PRIMARY KEY,
			format     TEXT NOT NULL,
			uploadtime INTEGER NOT NULL,
			document   BLOB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create replays table: %w", err)
	}
	return nil
}

// Get returns the cached document for a replay id, if present
func (s *ReplayStore) Get(ctx context.Context, id string) (*app.ReplayDocument, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT document FROM replays WHERE id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached replay %s: %w", id, err)
	}

	var doc app.ReplayDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt cache entry is treated as a miss so the replay gets
		// refetched and overwritten.
		log.Warn().Err(err).Str("replay_id", id).Msg("Corrupt cache entry, treating as miss")
		return nil, false, nil
	}

	return &doc, true, nil
}

// Put stores a fetched document, replacing any previous entry for the id
func (s *ReplayStore) Put(ctx context.Context, doc *app.ReplayDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode replay %s: %w", doc.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO replays (id, format, uploadtime, document) VALUES (?, ?, ?, ?)",
		doc.ID, doc.Format, doc.UploadTime, raw)
	if err != nil {
		return fmt.Errorf("failed to cache replay %s: %w", doc.ID, err)
	}

	return nil
}

// Count returns the number of cached replays
func (s *ReplayStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM replays").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached replays: %w", err)
	}
	return count, nil
}

// Close closes the underlying database
func (s *ReplayStore) Close() error {
	return s.db.Close()
}
