package postgres

import (
	"context"
	"fmt"

	"workflowhub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	r.logger.Debug("Inserting milestone",
		zap.String("milestone_id", m.ID),
		zap.String("project_id", m.ProjectID),
		zap.String("title", m.Title),
	)

	query := `
        INSERT INTO milestones (id, project_id, title, status, assigned_to, due_date, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.ProjectID,
		m.Title,
		m.Status,
		m.AssignedTo,
		m.DueDate,
		m.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.String("milestone_id", m.ID), zap.Error(err))
		return insertError("milestone", m.ID, err)
	}

	r.logger.Info("Milestone inserted successfully",
		zap.String("milestone_id", m.ID),
		zap.String("project_id", m.ProjectID),
	)
	return nil
}

func (r *MilestoneRepository) UpdateStatus(ctx context.Context, id, status string, completedAt *string) (int64, error) {
	r.logger.Debug("Updating milestone status", zap.String("milestone_id", id), zap.String("status", status))

	query := `
        UPDATE milestones
        SET status = $1, completed_at = $2
        WHERE id = $3
    `
	result, err := r.db.Exec(ctx, query, status, completedAt, id)
	if err != nil {
		r.logger.Error("Failed to update milestone status", zap.String("milestone_id", id), zap.Error(err))
		return 0, fmt.Errorf("update milestone %q: %w", id, err)
	}

	rowsAffected := result.RowsAffected()
	r.logger.Info("Milestone status updated",
		zap.String("milestone_id", id),
		zap.String("status", status),
		zap.Int64("rows_affected", rowsAffected),
	)
	return rowsAffected, nil
}

func (r *MilestoneRepository) List(ctx context.Context) ([]model.Milestone, error) {
	query := `
        SELECT id, project_id, title, status, assigned_to, due_date, completed_at
        FROM milestones
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list milestones", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Title,
			&m.Status,
			&m.AssignedTo,
			&m.DueDate,
			&m.CompletedAt,
		); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}
