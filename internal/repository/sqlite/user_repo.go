package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"workflowhub/internal/model"

	"go.uber.org/zap"
)

type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Upsert inserts the user or replaces the existing row.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	skills, err := model.EncodeSkills(u.Skills)
	if err != nil {
		return err
	}

	r.logger.Debug("Upserting user", zap.String("user_id", u.ID), zap.String("role", u.Role))

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (id, name, role, skills_json) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Role, skills,
	)
	if err != nil {
		r.logger.Error("Failed to upsert user", zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("upsert user %q: %w", u.ID, err)
	}

	r.logger.Info("User upserted successfully", zap.String("user_id", u.ID))
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, role, skills_json FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to find user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, role, skills_json FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan user", zap.Error(err))
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("Failed to list user ids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u      model.User
		skills string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &skills); err != nil {
		return nil, err
	}

	parsed, err := model.DecodeSkills(skills)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", u.ID, err)
	}
	u.Skills = parsed
	return &u, nil
}
