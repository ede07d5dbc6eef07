package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"workflowhub/internal/model"

	"go.uber.org/zap"
)

type MilestoneRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMilestoneRepository(db *sql.DB, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{db: db, logger: logger}
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	r.logger.Debug("Inserting milestone",
		zap.String("milestone_id", m.ID),
		zap.String("project_id", m.ProjectID),
		zap.String("title", m.Title),
	)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (id, project_id, title, status, assigned_to, due_date, completed_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Title, m.Status, m.AssignedTo, m.DueDate, m.CompletedAt,
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

	result, err := r.db.ExecContext(ctx,
		`UPDATE milestones SET status = ?, completed_at = ? WHERE id = ?`,
		status, completedAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to update milestone status", zap.String("milestone_id", id), zap.Error(err))
		return 0, fmt.Errorf("update milestone %q: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	r.logger.Info("Milestone status updated",
		zap.String("milestone_id", id),
		zap.String("status", status),
		zap.Int64("rows_affected", rowsAffected),
	)
	return rowsAffected, nil
}

func (r *MilestoneRepository) List(ctx context.Context) ([]model.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, title, status, assigned_to, due_date, completed_at FROM milestones ORDER BY id`,
	)
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
