package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const dropSQL = `
DROP TABLE IF EXISTS events, projects, users, milestones, task_history, resource_state
`

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}

// Reset drops all tables and recreates them empty.
func Reset(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, dropSQL); err != nil {
		return err
	}
	return Migrate(ctx, db)
}
