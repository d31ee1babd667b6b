// Package postgres provides the PostgreSQL session store for deployments
// that already run a relational database. Documents are stored as JSONB
// keyed by the subscriber msisdn and upserted on save.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS menuflow_sessions (
	msisdn     TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store implements ports.SessionStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to the database and ensures the sessions table exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring sessions table: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an existing connection pool. The caller owns the schema.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save upserts the session document.
func (s *Store) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", msisdn, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO menuflow_sessions (msisdn, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (msisdn)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		msisdn, data)
	if err != nil {
		return fmt.Errorf("saving session %q: %w", msisdn, err)
	}
	return nil
}

// Load retrieves the session document for a subscriber.
func (s *Store) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM menuflow_sessions WHERE msisdn = $1`, msisdn).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %q: %w", msisdn, domain.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %q: %w", msisdn, err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", msisdn, err)
	}
	return &state, nil
}

// Delete removes the subscriber's session. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, msisdn string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM menuflow_sessions WHERE msisdn = $1`, msisdn); err != nil {
		return fmt.Errorf("deleting session %q: %w", msisdn, err)
	}
	return nil
}

// Exists reports whether a session row is stored for the subscriber.
func (s *Store) Exists(ctx context.Context, msisdn string) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM menuflow_sessions WHERE msisdn = $1)`, msisdn).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking session %q: %w", msisdn, err)
	}
	return found, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
