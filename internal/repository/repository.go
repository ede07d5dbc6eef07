// Package repository is the data-access contract for the six workflow
// tables. Each operation touches one row or scans one table; nothing spans
// entities and referenced ids are never checked.
package repository

import (
	"context"

	"workflowhub/internal/model"
)

type ProjectRepository interface {
	// Insert fails with model.ErrDuplicateID when the id exists.
	Insert(ctx context.Context, p *model.Project) error
	List(ctx context.Context) ([]model.Project, error)
}

type UserRepository interface {
	// Upsert replaces every field of an existing user.
	Upsert(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type MilestoneRepository interface {
	Insert(ctx context.Context, m *model.Milestone) error
	// UpdateStatus sets status and completed_at and reports rows affected.
	UpdateStatus(ctx context.Context, id, status string, completedAt *string) (int64, error)
	List(ctx context.Context) ([]model.Milestone, error)
}

type TaskHistoryRepository interface {
	Insert(ctx context.Context, h *model.TaskHistory) error
	ListByUser(ctx context.Context, userID string) ([]model.TaskHistory, error)
}

type EventRepository interface {
	Insert(ctx context.Context, e *model.Event) error
	// Query returns matches newest first, at most f.Limit rows.
	Query(ctx context.Context, f model.EventFilter) ([]model.Event, error)
}

type ResourceRepository interface {
	Upsert(ctx context.Context, r *model.ResourceState) error
	FindByID(ctx context.Context, id string) (*model.ResourceState, error)
}
