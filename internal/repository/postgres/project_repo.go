package postgres

import (
	"context"

	"workflowhub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project",
		zap.String("project_id", p.ID),
		zap.String("name", p.Name),
	)

	query := `
        INSERT INTO projects (id, name, deadline, status, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Deadline, p.Status, p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.String("project_id", p.ID), zap.Error(err))
		return insertError("project", p.ID, err)
	}

	r.logger.Info("Project inserted successfully", zap.String("project_id", p.ID))
	return nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `
        SELECT id, name, deadline, status, created_at
        FROM projects
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
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
