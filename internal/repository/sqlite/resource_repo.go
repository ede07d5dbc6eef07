package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"workflowhub/internal/model"

	"go.uber.org/zap"
)

type ResourceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewResourceRepository(db *sql.DB, logger *zap.Logger) *ResourceRepository {
	return &ResourceRepository{db: db, logger: logger}
}

func (r *ResourceRepository) Upsert(ctx context.Context, s *model.ResourceState) error {
	r.logger.Debug("Upserting resource state", zap.String("resource_id", s.ID), zap.String("status", s.Status))

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO resource_state (id, updated_at, status, capacity, owner, team, notes, metadata)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            updated_at = excluded.updated_at,
            status = excluded.status,
            capacity = excluded.capacity,
            owner = excluded.owner,
            team = excluded.team,
            notes = excluded.notes,
            metadata = excluded.metadata
    `,
		s.ID, s.UpdatedAt, s.Status, s.Capacity, s.Owner, s.Team, s.Notes, s.Metadata.Text(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert resource state", zap.String("resource_id", s.ID), zap.Error(err))
		return fmt.Errorf("upsert resource %q: %w", s.ID, err)
	}

	r.logger.Info("Resource state upserted", zap.String("resource_id", s.ID))
	return nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*model.ResourceState, error) {
	var (
		s        model.ResourceState
		metadata sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, updated_at, status, capacity, owner, team, notes, metadata FROM resource_state WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.UpdatedAt, &s.Status, &s.Capacity, &s.Owner, &s.Team, &s.Notes, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resource %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to find resource state", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}

	if metadata.Valid {
		if s.Metadata, err = model.ParsePayload(metadata.String); err != nil {
			return nil, fmt.Errorf("resource %q: %w", id, err)
		}
	}
	return &s, nil
}
