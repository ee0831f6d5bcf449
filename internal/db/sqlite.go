// Package db provides SQLite storage for availability templates.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/template"
)

// SQLite implements template.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ template.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// ListTemplates returns the owner's templates ordered by day, start and end.
func (s *SQLite) ListTemplates(ctx context.Context, owner string) ([]template.Wire, error) {
	query := `
		SELECT day_of_week, start_time, end_time
		FROM templates
		WHERE owner = ?
		ORDER BY day_of_week, start_time, end_time
	`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []template.Wire
	for rows.Next() {
		var w template.Wire
		if err := rows.Scan(&w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}

	return out, nil
}

// ReplaceTemplates swaps the owner's whole set atomically.
func (s *SQLite) ReplaceTemplates(ctx context.Context, owner string, templates []template.Wire) error {
	if err := checkTemplates(templates); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("deleting templates: %w", err)
	}
	if err := insertTx(ctx, tx, owner, templates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// AddTemplates inserts templates in one transaction. Exact duplicates of
// stored templates are ignored.
func (s *SQLite) AddTemplates(ctx context.Context, owner string, templates []template.Wire) error {
	if len(templates) == 0 {
		return nil
	}
	if err := checkTemplates(templates); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertTx(ctx, tx, owner, templates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteTemplates removes templates matching by value and returns how many
// rows were deleted.
func (s *SQLite) DeleteTemplates(ctx context.Context, owner string, templates []template.Wire) (int, error) {
	if len(templates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		DELETE FROM templates
		WHERE owner = ? AND day_of_week = ? AND start_time = ? AND end_time = ?
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var deleted int64
	for _, w := range templates {
		result, err := stmt.ExecContext(ctx, owner, w.DayOfWeek, w.StartTime, w.EndTime)
		if err != nil {
			return 0, fmt.Errorf("deleting template %s: %w", w, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("getting rows affected: %w", err)
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return int(deleted), nil
}

// Owners returns every owner with at least one template.
func (s *SQLite) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner FROM templates ORDER BY owner`)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owners: %w", err)
	}
	return owners, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func insertTx(ctx context.Context, tx *sql.Tx, owner string, templates []template.Wire) error {
	if len(templates) == 0 {
		return nil
	}

	query := `
		INSERT OR IGNORE INTO templates (owner, day_of_week, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, w := range templates {
		if _, err := stmt.ExecContext(ctx, owner, w.DayOfWeek, w.StartTime, w.EndTime, now); err != nil {
			return fmt.Errorf("inserting template %s: %w", w, err)
		}
	}
	return nil
}

// checkTemplates rejects rows that could never be decoded: the store keeps
// wire values verbatim, so malformed times are stopped here.
func checkTemplates(templates []template.Wire) error {
	for i, w := range templates {
		if w.DayOfWeek < 0 || w.DayOfWeek >= grid.DaysPerWeek {
			return fmt.Errorf("template %d: %w", i, grid.Invalid("dayOfWeek", w.DayOfWeek, "must be 0-6"))
		}
		if _, err := template.ParseTime(w.StartTime); err != nil {
			return fmt.Errorf("template %d start: %w", i, err)
		}
		if _, err := template.ParseTime(w.EndTime); err != nil {
			return fmt.Errorf("template %d end: %w", i, err)
		}
	}
	return nil
}
