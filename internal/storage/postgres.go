package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"

	"invite-redirector/internal/domain"
)

const createInviteRecordsTable = `
	CREATE TABLE IF NOT EXISTS invite_records (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresStore keeps the record as a JSON value in a key/value table.
type PostgresStore struct {
	db  *sql.DB
	key string
}

// NewPostgresStore creates a store over an open database handle.
func NewPostgresStore(db *sql.DB, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

func (s *PostgresStore) Name() string {
	return "postgres"
}

// EnsureSchema creates the key/value table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createInviteRecordsTable); err != nil {
		return &TransportError{Backend: s.Name(), Op: "migrate", Err: err}
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	var raw []byte
	query := `SELECT value FROM invite_records WHERE key = $1`
	err := s.db.QueryRowContext(ctx, query, s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Backend: s.Name(), Key: s.key}
	}
	if err != nil {
		return nil, &TransportError{Backend: s.Name(), Op: "read", Err: err}
	}

	var rec domain.InvitationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &TransportError{Backend: s.Name(), Op: "decode", Err: err}
	}
	return &rec, nil
}

func (s *PostgresStore) Write(ctx context.Context, rec *domain.InvitationRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return &TransportError{Backend: s.Name(), Op: "encode", Err: err}
	}

	query := `INSERT INTO invite_records (key, value, updated_on) VALUES ($1, $2, NOW())
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_on = EXCLUDED.updated_on`
	if _, err := s.db.ExecContext(ctx, query, s.key, raw); err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: err}
	}
	return nil
}
