package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"workflowhub/internal/model"

	"go.uber.org/zap"
)

type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewEventRepository(db *sql.DB, logger *zap.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

func (r *EventRepository) Insert(ctx context.Context, e *model.Event) error {
	r.logger.Debug("Inserting event",
		zap.String("event_id", e.ID),
		zap.String("type", e.Type),
		zap.String("team", e.Team),
		zap.String("severity", e.Severity),
	)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, type, team, severity, timestamp, payload_json) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.Team, e.Severity, e.Timestamp, e.Payload.Text(),
	)
	if err != nil {
		r.logger.Error("Failed to insert event", zap.String("event_id", e.ID), zap.Error(err))
		return insertError("event", e.ID, err)
	}

	r.logger.Info("Event inserted successfully", zap.String("event_id", e.ID))
	return nil
}

func (r *EventRepository) Query(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond, value string) {
		if value == "" {
			return
		}
		where = append(where, cond)
		args = append(args, value)
	}
	add("team = ?", f.Team)
	add("type = ?", f.Type)
	add("severity = ?", f.Severity)
	add("timestamp >= ?", f.StartTS)
	add("timestamp <= ?", f.EndTS)

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)

	query := fmt.Sprintf(`
        SELECT id, type, team, severity, timestamp, payload_json
        FROM events
        %s
        ORDER BY timestamp DESC, id DESC
        LIMIT ?
    `, whereSQL)

	r.logger.Debug("Querying events",
		zap.String("team", f.Team),
		zap.String("type", f.Type),
		zap.String("severity", f.Severity),
		zap.Int("limit", f.Limit),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var (
			e       model.Event
			payload string
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.Team, &e.Severity, &e.Timestamp, &payload); err != nil {
			r.logger.Error("Failed to scan event", zap.Error(err))
			return nil, err
		}
		if e.Payload, err = model.ParsePayload(payload); err != nil {
			return nil, fmt.Errorf("event %q: %w", e.ID, err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
