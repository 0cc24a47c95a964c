package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/movewise/movewise/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    updated_at INTEGER NOT NULL
) WITHOUT ROWID;
`

// SQLiteStore keeps sessions in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and prepares the
// sessions table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewStoreError("failed to create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreError("failed to open database", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.NewStoreError("failed to set pragma", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.NewStoreError("failed to initialize schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save upserts a sanitized snapshot of state for the session.
func (s *SQLiteStore) Save(ctx context.Context, id string, state map[string]any) error {
	if id == "" {
		return errors.NewStoreError("session ID cannot be empty", errors.ErrInvalidInput)
	}

	data, err := json.Marshal(Sanitize(state))
	if err != nil {
		return errors.NewStoreError("failed to marshal session state", err).WithSession(id)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, string(data), time.Now().Unix())
	if err != nil {
		return errors.NewStoreError("failed to save session", err).WithSession(id)
	}
	return nil
}

// Load reads the stored state for a session. Unknown IDs yield an empty map.
func (s *SQLiteStore) Load(ctx context.Context, id string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[string]any{}, nil
		}
		return nil, errors.NewStoreError("failed to load session", err).WithSession(id)
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, errors.NewStoreError("invalid session row", errors.ErrSessionCorrupted).WithSession(id)
	}
	if state == nil {
		state = map[string]any{}
	}
	return state, nil
}

// List returns summaries for every stored session, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, updated_at FROM sessions ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, errors.NewStoreError("failed to list sessions", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var id string
		var updated int64
		if err := rows.Scan(&id, &updated); err != nil {
			return nil, errors.NewStoreError("failed to scan session row", err)
		}
		infos = append(infos, Info{ID: id, UpdatedAt: time.Unix(updated, 0)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("failed to list sessions", err)
	}
	return infos, nil
}

// Delete removes a stored session.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return errors.NewStoreError("failed to delete session", err).WithSession(id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewStoreError("no such session", errors.ErrSessionNotFound).WithSession(id)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
