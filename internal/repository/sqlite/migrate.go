package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

var tables = []string{"events", "projects", "users", "milestones", "task_history", "resource_state"}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}

// Reset drops all tables and recreates them empty.
func Reset(ctx context.Context, db *sql.DB) error {
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return err
		}
	}
	return Migrate(ctx, db)
}
