package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS templates (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner       TEXT NOT NULL,
			day_of_week INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(owner, day_of_week, start_time, end_time)
		);

		CREATE INDEX IF NOT EXISTS idx_templates_owner ON templates(owner);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating templates table: %w", err)
	}

	return nil
}
