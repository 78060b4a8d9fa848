package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/agentgraph/core"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists session snapshots as JSON rows in a local SQLite
// database. WAL mode is enabled for concurrent readers; the pool is capped
// at a single connection since SQLite does not handle multiple writers well.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes
// the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Load returns the latest snapshot for the session id or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*core.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state core.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save upserts the snapshot for the session id.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, state *core.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		sessionID, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}
