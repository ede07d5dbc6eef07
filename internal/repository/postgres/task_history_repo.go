package postgres

import (
	"context"

	"workflowhub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskHistoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskHistoryRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskHistoryRepository {
	return &TaskHistoryRepository{db: db, logger: logger}
}

func (r *TaskHistoryRepository) Insert(ctx context.Context, h *model.TaskHistory) error {
	r.logger.Debug("Inserting task history",
		zap.String("entry_id", h.ID),
		zap.String("user_id", h.UserID),
		zap.String("task_type", h.TaskType),
	)

	query := `
        INSERT INTO task_history (id, user_id, task_type, duration_minutes, success_rating, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query,
		h.ID,
		h.UserID,
		h.TaskType,
		h.DurationMinutes,
		h.SuccessRating,
		h.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to insert task history",
			zap.String("entry_id", h.ID),
			zap.String("user_id", h.UserID),
			zap.Error(err),
		)
		return insertError("task history", h.ID, err)
	}

	r.logger.Info("Task history inserted successfully",
		zap.String("entry_id", h.ID),
		zap.String("user_id", h.UserID),
	)
	return nil
}

func (r *TaskHistoryRepository) ListByUser(ctx context.Context, userID string) ([]model.TaskHistory, error) {
	r.logger.Debug("Listing task history for user", zap.String("user_id", userID))

	query := `
        SELECT id, user_id, task_type, duration_minutes, success_rating, timestamp
        FROM task_history
        WHERE user_id = $1
        ORDER BY timestamp, id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query task history", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	history := []model.TaskHistory{}
	for rows.Next() {
		var h model.TaskHistory
		if err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.TaskType,
			&h.DurationMinutes,
			&h.SuccessRating,
			&h.Timestamp,
		); err != nil {
			r.logger.Error("Failed to scan task history row", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}
