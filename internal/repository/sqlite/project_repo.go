package sqlite

import (
	"context"
	"database/sql"

	"workflowhub/internal/model"

	"go.uber.org/zap"
)

type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProjectRepository(db *sql.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project", zap.String("project_id", p.ID), zap.String("name", p.Name))

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, deadline, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Deadline, p.Status, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.String("project_id", p.ID), zap.Error(err))
		return insertError("project", p.ID, err)
	}

	r.logger.Info("Project inserted successfully", zap.String("project_id", p.ID))
	return nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, deadline, status, created_at FROM projects ORDER BY id`)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Deadline, &p.Status, &p.CreatedAt); err != nil {
			r.logger.Error("Failed to scan project", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
