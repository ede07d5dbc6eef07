package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"workflowhub/internal/repository/postgres"
	"workflowhub/internal/repository/sqlite"
	"workflowhub/pkg/db"
)

// Store bundles the repositories of one opened store. It is created by
// Open and must be released with Close.
type Store struct {
	Projects   ProjectRepository
	Users      UserRepository
	Milestones MilestoneRepository
	History    TaskHistoryRepository
	Events     EventRepository
	Resources  ResourceRepository

	engine string
	ping   func(ctx context.Context) error
	reset  func(ctx context.Context) error
	close  func()
}

// Open connects to location and creates any missing tables. A postgres://
// URL selects PostgreSQL; any other value is a SQLite file path.
func Open(ctx context.Context, location string, logger *zap.Logger) (*Store, error) {
	if db.IsPostgresURL(location) {
		return openPostgres(ctx, location, logger)
	}
	return openSQLite(ctx, location, logger)
}

func openPostgres(ctx context.Context, location string, logger *zap.Logger) (*Store, error) {
	pool, err := db.NewConnection(ctx, location, logger)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres store: %w", err)
	}

	return &Store{
		Projects:   postgres.NewProjectRepository(pool, logger),
		Users:      postgres.NewUserRepository(pool, logger),
		Milestones: postgres.NewMilestoneRepository(pool, logger),
		History:    postgres.NewTaskHistoryRepository(pool, logger),
		Events:     postgres.NewEventRepository(pool, logger),
		Resources:  postgres.NewResourceRepository(pool, logger),
		engine:     "postgres",
		ping:       pool.Ping,
		reset: func(ctx context.Context) error {
			return postgres.Reset(ctx, pool)
		},
		close: pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, location string, logger *zap.Logger) (*Store, error) {
	conn, err := db.NewSQLite(location, logger)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}

	return &Store{
		Projects:   sqlite.NewProjectRepository(conn, logger),
		Users:      sqlite.NewUserRepository(conn, logger),
		Milestones: sqlite.NewMilestoneRepository(conn, logger),
		History:    sqlite.NewTaskHistoryRepository(conn, logger),
		Events:     sqlite.NewEventRepository(conn, logger),
		Resources:  sqlite.NewResourceRepository(conn, logger),
		engine:     "sqlite",
		ping:       conn.PingContext,
		reset: func(ctx context.Context) error {
			return sqlite.Reset(ctx, conn)
		},
		close: func() { _ = conn.Close() },
	}, nil
}

// Engine names the backing engine, "postgres" or "sqlite".
func (s *Store) Engine() string {
	return s.engine
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Reset drops every table and recreates the empty schema.
func (s *Store) Reset(ctx context.Context) error {
	return s.reset(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}
