package postgres

import (
	"context"
	"errors"
	"fmt"

	"workflowhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ResourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewResourceRepository(db *pgxpool.Pool, logger *zap.Logger) *ResourceRepository {
	return &ResourceRepository{db: db, logger: logger}
}

func (r *ResourceRepository) Upsert(ctx context.Context, s *model.ResourceState) error {
	r.logger.Debug("Upserting resource state", zap.String("resource_id", s.ID), zap.String("status", s.Status))

	query := `
        INSERT INTO resource_state (id, updated_at, status, capacity, owner, team, notes, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE SET
            updated_at = EXCLUDED.updated_at,
            status = EXCLUDED.status,
            capacity = EXCLUDED.capacity,
            owner = EXCLUDED.owner,
            team = EXCLUDED.team,
            notes = EXCLUDED.notes,
            metadata = EXCLUDED.metadata
    `
	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.UpdatedAt,
		s.Status,
		s.Capacity,
		s.Owner,
		s.Team,
		s.Notes,
		s.Metadata.Text(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert resource state", zap.String("resource_id", s.ID), zap.Error(err))
		return fmt.Errorf("upsert resource %q: %w", s.ID, err)
	}

	r.logger.Info("Resource state upserted", zap.String("resource_id", s.ID))
	return nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*model.ResourceState, error) {
	query := `
        SELECT id, updated_at, status, capacity, owner, team, notes, metadata
        FROM resource_state
        WHERE id = $1
    `
	var (
		s        model.ResourceState
		metadata *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UpdatedAt,
		&s.Status,
		&s.Capacity,
		&s.Owner,
		&s.Team,
		&s.Notes,
		&metadata,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resource %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to find resource state", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}

	if metadata != nil {
		if s.Metadata, err = model.ParsePayload(*metadata); err != nil {
			return nil, fmt.Errorf("resource %q: %w", id, err)
		}
	}
	return &s, nil
}
