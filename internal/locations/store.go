package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound      = errors.New("location not found")
	ErrAmbiguous     = errors.New("location name is ambiguous")
	ErrInvalidKind   = errors.New("invalid location kind")
	ErrNoCredentials = errors.New("no API credentials available")
)

// Kind categorizes a registration
type Kind string

const (
	KindSubAccount Kind = "sub_account"
	KindAgency     Kind = "agency"
)

func (k Kind) Valid() bool {
	return k == KindSubAccount || k == KindAgency
}

// Location is a registered tenant with its credential
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"-"`
	Kind      Kind      `json:"kind"`
	IsDefault bool      `json:"is_default"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registration is the input of Register
type Registration struct {
	ID        string
	Name      string
	Token     string
	Kind      Kind
	Notes     string
	IsDefault bool
}

// Store persists locations in SQLite.
// The default location is held by the single row of registry_settings.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry database at path
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY inside this process.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewStore creates a store and its tables
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

// EnsureSchema creates the registry tables. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		token TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'sub_account',
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(lower(name));

	CREATE TABLE IF NOT EXISTS registry_settings (
		singleton INTEGER PRIMARY KEY CHECK (singleton = 1),
		default_location_id TEXT REFERENCES locations(id) ON DELETE SET NULL
	);

	INSERT OR IGNORE INTO registry_settings (singleton, default_location_id) VALUES (1, NULL);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Register upserts a location keyed by ID. With IsDefault the location also
// becomes the default, in the same transaction.
func (s *Store) Register(ctx context.Context, reg Registration) (*Location, error) {
	if err := validateRegistration(&reg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO locations (id, name, token, kind, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			token = excluded.token,
			kind = excluded.kind,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, reg.ID, reg.Name, reg.Token, string(reg.Kind), nullString(reg.Notes), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert location: %w", err)
	}

	if reg.IsDefault {
		if err := setDefaultTx(ctx, tx, reg.ID); err != nil {
			return nil, err
		}
	}

	loc, err := getTx(ctx, tx, reg.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return loc, nil
}

// Get returns a location by ID
func (s *Store) Get(ctx context.Context, id string) (*Location, error) {
	return getTx(ctx, s.db, strings.TrimSpace(id))
}

// List returns all locations ordered by name
func (s *Store) List(ctx context.Context) ([]*Location, error) {
	return queryLocations(ctx, s.db, selectLocations+` ORDER BY l.name COLLATE NOCASE, l.id`)
}

// Default returns the default location, or nil when none is set
func (s *Store) Default(ctx context.Context) (*Location, error) {
	locs, err := queryLocations(ctx, s.db, selectLocations+` WHERE l.id = (SELECT default_location_id FROM registry_settings WHERE singleton = 1)`)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, nil
	}
	return locs[0], nil
}

// SetDefault points the default at an existing location
func (s *Store) SetDefault(ctx context.Context, id string) (*Location, error) {
	id = strings.TrimSpace(id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getTx(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := setDefaultTx(ctx, tx, id); err != nil {
		return nil, err
	}
	loc, err := getTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return loc, nil
}

// Remove forgets a location. The default pointer is cleared if it referenced it.
func (s *Store) Remove(ctx context.Context, id string) (*Location, error) {
	id = strings.TrimSpace(id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	loc, err := getTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE registry_settings SET default_location_id = NULL
		WHERE singleton = 1 AND default_location_id = ?
	`, id); err != nil {
		return nil, fmt.Errorf("failed to clear default: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return loc, nil
}

// RotateToken replaces the stored credential of a location
func (s *Store) RotateToken(ctx context.Context, id, token string) (*Location, error) {
	id = strings.TrimSpace(id)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("validation failed: token cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE locations SET token = ?, updated_at = ? WHERE id = ?
	`, token, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(ctx, id)
}

// Count returns the number of registered locations
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return n, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectLocations = `
	SELECT l.id, l.name, l.token, l.kind, l.notes, l.created_at, l.updated_at,
		CASE WHEN l.id = (SELECT default_location_id FROM registry_settings WHERE singleton = 1) THEN 1 ELSE 0 END
	FROM locations l`

func getTx(ctx context.Context, q querier, id string) (*Location, error) {
	locs, err := queryLocations(ctx, q, selectLocations+` WHERE l.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return locs[0], nil
}

func queryLocations(ctx context.Context, q querier, query string, args ...any) ([]*Location, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locs []*Location
	for rows.Next() {
		var loc Location
		var kind string
		var notes sql.NullString
		var isDefault int
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Token, &kind, &notes, &loc.CreatedAt, &loc.UpdatedAt, &isDefault); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		loc.Kind = Kind(kind)
		loc.Notes = notes.String
		loc.IsDefault = isDefault == 1
		locs = append(locs, &loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return locs, nil
}

func setDefaultTx(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE registry_settings SET default_location_id = ? WHERE singleton = 1
	`, id); err != nil {
		return fmt.Errorf("failed to set default: %w", err)
	}
	return nil
}

func validateRegistration(reg *Registration) error {
	reg.ID = strings.TrimSpace(reg.ID)
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Token = strings.TrimSpace(reg.Token)
	reg.Notes = strings.TrimSpace(reg.Notes)

	if reg.ID == "" {
		return fmt.Errorf("location id cannot be empty")
	}
	if reg.Name == "" {
		return fmt.Errorf("location name cannot be empty")
	}
	if reg.Token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if reg.Kind == "" {
		reg.Kind = KindSubAccount
	}
	if !reg.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, reg.Kind)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
