// Package sqlitestore persists linkframe view state and links in a SQLite
// file. A single Store implements both linkframe.Store and
// linkframe.LinkStore.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/linkframe"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// DefaultSession scopes key/value rows when no session id is given.
const DefaultSession = "default"

// DefaultTimeout bounds every statement.
const DefaultTimeout = 5 * time.Second

var errNotConfigured = errors.New("storage is not configured")

// Store is a SQLite-backed view state and link store.
type Store struct {
	db      *sql.DB
	session string
	timeout time.Duration
}

var (
	_ linkframe.Store     = (*Store)(nil)
	_ linkframe.LinkStore = (*Store)(nil)
)

// Open opens or creates the database at path and applies the schema.
// Key/value rows are scoped to session.
func Open(path, session string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	session = strings.TrimSpace(session)
	if session == "" {
		session = DefaultSession
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps PRAGMAs and writes on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, session: session, timeout: DefaultTimeout}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Session returns the key/value scope.
func (s *Store) Session() string {
	return s.session
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// --- key/value ---

// Save upserts value under key.
func (s *Store) Save(key string, value []byte) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (session, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session, key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = excluded.updated_at`,
		s.session, key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load returns the value stored under key.
func (s *Store) Load(key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errNotConfigured
	}
	ctx, cancel := s.ctx()
	defer cancel()
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE session = ? AND key = ?`,
		s.session, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

// Clear deletes key. Clearing a missing key is not an error.
func (s *Store) Clear(key string) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE session = ? AND key = ?`, s.session, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// --- links ---

// PutLink upserts l by URL.
func (s *Store) PutLink(l linkframe.Link) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	if err := l.Validate(); err != nil {
		return err
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO links (url, title, timestamp, pinned) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		    title = excluded.title,
		    timestamp = excluded.timestamp,
		    pinned = excluded.pinned`,
		l.URL, l.Title, l.Timestamp, boolToInt(l.Pinned),
	)
	if err != nil {
		return fmt.Errorf("put link: %w", err)
	}
	return nil
}

// GetLink loads a link by URL.
func (s *Store) GetLink(rawURL string) (linkframe.Link, bool, error) {
	if s == nil || s.db == nil {
		return linkframe.Link{}, false, errNotConfigured
	}
	ctx, cancel := s.ctx()
	defer cancel()
	row := s.db.QueryRowContext(ctx,
		`SELECT url, title, timestamp, pinned FROM links WHERE url = ?`, rawURL)
	l, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return linkframe.Link{}, false, nil
		}
		return linkframe.Link{}, false, fmt.Errorf("get link: %w", err)
	}
	return l, true, nil
}

// DeleteLink removes a link by URL.
func (s *Store) DeleteLink(rawURL string) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE url = ?`, rawURL); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// RecentLinks returns up to limit links, newest first. A non-positive limit
// returns every link.
func (s *Store) RecentLinks(limit int) ([]linkframe.Link, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryLinks("recent links",
		`SELECT url, title, timestamp, pinned FROM links
		 ORDER BY timestamp DESC, url ASC
		 LIMIT ?`, limit)
}

// PinnedLinks returns every pinned link, newest first.
func (s *Store) PinnedLinks() ([]linkframe.Link, error) {
	return s.queryLinks("pinned links",
		`SELECT url, title, timestamp, pinned FROM links
		 WHERE pinned = 1
		 ORDER BY timestamp DESC, url ASC`)
}

func (s *Store) queryLinks(what, query string, args ...any) ([]linkframe.Link, error) {
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	links := make([]linkframe.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return links, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (linkframe.Link, error) {
	var l linkframe.Link
	var pinned int64
	if err := row.Scan(&l.URL, &l.Title, &l.Timestamp, &pinned); err != nil {
		return linkframe.Link{}, err
	}
	l.Pinned = pinned != 0
	return l, nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
