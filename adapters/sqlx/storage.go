package sqlx

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"habitquest/core"
)

// Driver selects the SQL dialect the store speaks.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

// Config holds SQL storage configuration.
type Config struct {
	Driver Driver `json:"driver" env:"DRIVER"`
	DSN    string `json:"dsn" env:"DSN"`
}

// Store implements engine.ProfileStore over a SQL database. Profiles are
// stored as one JSON snapshot row per id; the JSON layout carries additive
// migrations so the schema never needs per-field DDL.
type Store struct {
	db     *sqlx.DB
	driver Driver
}

// Schema is the DDL for the profiles table. Types are chosen to be valid on
// postgres, mysql, and sqlite.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id         VARCHAR(128) PRIMARY KEY,
    snapshot   TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// New opens a connection and ensures the schema exists.
func New(cfg Config) (*Store, error) {
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db, driver: cfg.Driver}, nil
}

// NewWithDB creates a Store using an existing database handle (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(ctx context.Context, id core.ProfileID) (core.Profile, bool, error) {
	var raw string
	query := s.db.Rebind(`SELECT snapshot FROM profiles WHERE id = ?`)
	err := s.db.GetContext(ctx, &raw, query, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, false, nil
	}
	if err != nil {
		return core.Profile{}, false, fmt.Errorf("load profile %q: %w", id, err)
	}
	var p core.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// corrupt row behaves as absent; the caller substitutes the
		// initial profile
		return core.Profile{}, false, nil
	}
	p.Normalize(time.Now())
	return p, true, nil
}

func (s *Store) Save(ctx context.Context, id core.ProfileID, p core.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", id, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	query := tx.Rebind(`SELECT id FROM profiles WHERE id = ?`)
	err = tx.GetContext(ctx, &existing, query, string(id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		insert := tx.Rebind(`INSERT INTO profiles (id, snapshot, updated_at) VALUES (?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, insert, string(id), string(b), time.Now().UTC()); err != nil {
			return fmt.Errorf("insert profile %q: %w", id, err)
		}
	case err != nil:
		return fmt.Errorf("check profile %q: %w", id, err)
	default:
		update := tx.Rebind(`UPDATE profiles SET snapshot = ?, updated_at = ? WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, update, string(b), time.Now().UTC(), string(id)); err != nil {
			return fmt.Errorf("update profile %q: %w", id, err)
		}
	}
	return tx.Commit()
}
