// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists user-added endpoints and keyword search history
// in a local SQLite database. Query results are never stored.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sparql-search/pkg/types"
)

const (
	dbFile = "sparql-search.db"

	defaultRecent = 20

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when removing an endpoint that was never added.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the database at DataDir/sparql-search.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("store: data directory is empty")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS endpoints (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			text_search TEXT NOT NULL DEFAULT 'none',
			added_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			endpoint_id TEXT NOT NULL,
			keyword TEXT NOT NULL,
			"offset" INTEGER NOT NULL,
			rows INTEGER NOT NULL,
			searched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AddEndpoint inserts ep, replacing an endpoint with the same id.
func (s *Store) AddEndpoint(ctx context.Context, ep types.Endpoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO endpoints (id, name, url, text_search, added_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, url=excluded.url, text_search=excluded.text_search`,
		ep.ID, ep.Name, ep.URL, string(ep.TextSearch), s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving endpoint %s: %w", ep.ID, err)
	}
	return nil
}

// RemoveEndpoint deletes the endpoint with the given id.
func (s *Store) RemoveEndpoint(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM endpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing endpoint %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing endpoint %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("endpoint %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListEndpoints returns the saved endpoints in the order they were added.
// Each is marked Custom.
func (s *Store) ListEndpoints(ctx context.Context) ([]types.Endpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, url, text_search FROM endpoints ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing endpoints: %w", err)
	}
	defer rows.Close()

	var eps []types.Endpoint
	for rows.Next() {
		var ep types.Endpoint
		var ts string
		if err := rows.Scan(&ep.ID, &ep.Name, &ep.URL, &ts); err != nil {
			return nil, fmt.Errorf("scanning endpoint: %w", err)
		}
		ep.TextSearch = types.TextSearch(ts)
		ep.Custom = true
		eps = append(eps, ep)
	}
	return eps, rows.Err()
}

// RecordSearch appends a keyword search to the history. It assigns the
// record's ID and timestamp and returns the stored record.
func (s *Store) RecordSearch(ctx context.Context, rec types.SearchRecord) (types.SearchRecord, error) {
	rec.Keyword = strings.TrimSpace(rec.Keyword)
	if rec.Keyword == "" {
		return types.SearchRecord{}, errors.New("recording search: keyword is empty")
	}
	rec.ID = uuid.NewString()
	rec.SearchedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, endpoint_id, keyword, "offset", rows, searched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.EndpointID, rec.Keyword, rec.Offset, rec.Rows,
		rec.SearchedAt.Format(timeLayout),
	)
	if err != nil {
		return types.SearchRecord{}, fmt.Errorf("recording search: %w", err)
	}
	return rec, nil
}

// RecentSearches returns up to limit history records, newest first.
// A non-positive limit uses the default of 20.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]types.SearchRecord, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, endpoint_id, keyword, "offset", rows, searched_at
		 FROM searches ORDER BY searched_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []types.SearchRecord
	for rows.Next() {
		var rec types.SearchRecord
		var at string
		if err := rows.Scan(&rec.ID, &rec.EndpointID, &rec.Keyword, &rec.Offset, &rec.Rows, &at); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		rec.SearchedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", at, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ClearHistory deletes every history record and returns how many there were.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
