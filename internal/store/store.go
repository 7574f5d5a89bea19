// Package store keeps hierarchies, plans and snapshots in a SQLite database.
// Bodies are stored in their JSON wire form.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/allocation"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a hierarchy, plan or snapshot does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS hierarchies (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	hierarchy  TEXT NOT NULL REFERENCES hierarchies(name),
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	hierarchy  TEXT NOT NULL REFERENCES hierarchies(name),
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Store wraps the database connection
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens the database at path, creating it and its schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// sqlite has a single writer
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) stamp() string { return s.now().UTC().Format(time.RFC3339) }

// SaveHierarchy stores h under name, replacing any previous definition.
func (s *Store) SaveHierarchy(ctx context.Context, name string, h *allocation.Hierarchy) error {
	var body bytes.Buffer
	if err := allocation.EncodeHierarchy(&body, h); err != nil {
		return fmt.Errorf("failed to encode hierarchy %q: %w", name, err)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO hierarchies (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body.String(), s.stamp())
	if err != nil {
		return fmt.Errorf("failed to save hierarchy %q: %w", name, err)
	}
	return nil
}

// Hierarchy returns the hierarchy stored under name.
func (s *Store) Hierarchy(ctx context.Context, name string) (*allocation.Hierarchy, error) {
	var body string
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM hierarchies WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hierarchy %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hierarchy %q: %w", name, err)
	}
	return allocation.DecodeHierarchy(strings.NewReader(body))
}

// SavePlan stores p with the hierarchy it is laid out on. A plan without an
// id is given a new one.
func (s *Store) SavePlan(ctx context.Context, hierarchy string, p *allocation.Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	var body bytes.Buffer
	if err := allocation.EncodePlan(&body, p); err != nil {
		return fmt.Errorf("failed to encode plan %q: %w", p.Name, err)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO plans (id, name, hierarchy, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, hierarchy = excluded.hierarchy,
			body = excluded.body, updated_at = excluded.updated_at`,
		p.ID.String(), p.Name, hierarchy, body.String(), s.stamp())
	if err != nil {
		return fmt.Errorf("failed to save plan %q: %w", p.Name, err)
	}
	return nil
}

// Plan returns the plan id with its hierarchy.
func (s *Store) Plan(ctx context.Context, id uuid.UUID) (*allocation.Plan, *allocation.Hierarchy, error) {
	var body, hierarchy string
	err := s.conn.QueryRowContext(ctx, `
		SELECT p.body, h.body FROM plans p JOIN hierarchies h ON h.name = p.hierarchy
		WHERE p.id = ?`, id.String()).Scan(&body, &hierarchy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan %s: %w", id, err)
	}
	p, err := allocation.DecodePlan(strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	h, err := allocation.DecodeHierarchy(strings.NewReader(hierarchy))
	if err != nil {
		return nil, nil, err
	}
	return p, h, nil
}

// ListPlans returns every stored plan ordered by name.
func (s *Store) ListPlans(ctx context.Context) ([]*allocation.Plan, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT body FROM plans ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*allocation.Plan
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
		p, err := allocation.DecodePlan(strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// SaveSnapshot stores snap with the hierarchy its positions are laid out on.
// A snapshot without an id is given a new one.
func (s *Store) SaveSnapshot(ctx context.Context, hierarchy string, snap *allocation.Snapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	var body bytes.Buffer
	if err := allocation.EncodeSnapshot(&body, snap); err != nil {
		return fmt.Errorf("failed to encode snapshot %q: %w", snap.Name, err)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, hierarchy, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, hierarchy = excluded.hierarchy,
			body = excluded.body, updated_at = excluded.updated_at`,
		snap.ID.String(), snap.Name, hierarchy, body.String(), s.stamp())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", snap.Name, err)
	}
	return nil
}

// Snapshot returns the snapshot id with its hierarchy.
func (s *Store) Snapshot(ctx context.Context, id uuid.UUID) (*allocation.Snapshot, *allocation.Hierarchy, error) {
	var body, hierarchy string
	err := s.conn.QueryRowContext(ctx, `
		SELECT s.body, h.body FROM snapshots s JOIN hierarchies h ON h.name = s.hierarchy
		WHERE s.id = ?`, id.String()).Scan(&body, &hierarchy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	snap, err := allocation.DecodeSnapshot(strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	h, err := allocation.DecodeHierarchy(strings.NewReader(hierarchy))
	if err != nil {
		return nil, nil, err
	}
	return snap, h, nil
}

// ListSnapshots returns every stored snapshot ordered by name.
func (s *Store) ListSnapshots(ctx context.Context) ([]*allocation.Snapshot, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT body FROM snapshots ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*allocation.Snapshot
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		snap, err := allocation.DecodeSnapshot(strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}
