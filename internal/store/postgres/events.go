package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// EventStore implements store.EventStore using PostgreSQL.
type EventStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Record appends one scaling event. Events are immutable, so conflicts
// on the event ID are ignored.
func (s *EventStore) Record(ctx context.Context, event models.ScalingEvent) error {
	query := `
		INSERT INTO scaling_events (id, service_id, occurred_at, action, from_instances, to_instances, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.ServiceID,
		event.Timestamp,
		string(event.Action),
		event.FromInstances,
		event.ToInstances,
		event.Reason,
	)
	if err != nil {
		return fmt.Errorf("recording scaling event %s: %w", event.ID, err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (s *EventStore) ListRecent(ctx context.Context, limit int) ([]models.ScalingEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, service_id, occurred_at, action, from_instances, to_instances, reason
		FROM scaling_events
		ORDER BY occurred_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scaling events: %w", err)
	}
	defer rows.Close()

	var events []models.ScalingEvent
	for rows.Next() {
		var event models.ScalingEvent
		var action string
		if err := rows.Scan(
			&event.ID,
			&event.ServiceID,
			&event.Timestamp,
			&action,
			&event.FromInstances,
			&event.ToInstances,
			&event.Reason,
		); err != nil {
			return nil, fmt.Errorf("scanning scaling event: %w", err)
		}
		event.Action = models.ScalingAction(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scaling events: %w", err)
	}

	return events, nil
}
