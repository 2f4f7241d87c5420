package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// TimelineRepository implements timeline.Repository
type TimelineRepository struct {
	db *DB
}

// NewTimelineRepository creates a new TimelineRepository
func NewTimelineRepository(db *DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// Log inserts a new timeline event
func (r *TimelineRepository) Log(ctx context.Context, tenantID string, evt *timeline.Event) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// List returns timeline events matching the given filters, newest first
func (r *TimelineRepository) List(ctx context.Context, tenantID string, opts timeline.ListOptions) ([]timeline.Event, error) {
	query := `
		SELECT id, tenant_id, project_id, event_type, title, description, related_entity_id, created_at
		FROM timeline_events
		WHERE tenant_id = ?
	`

	args := []any{tenantID}
	conditions := []string{}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.RelatedEntityID != nil {
		conditions = append(conditions, "related_entity_id = ?")
		args = append(args, *opts.RelatedEntityID)
	}
	if opts.Type != nil {
		conditions = append(conditions, "event_type = ?")
		args = append(args, *opts.Type)
	}

	if len(conditions) > 0 {
		query += " AND " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}
	defer rows.Close()

	events := []timeline.Event{}
	for rows.Next() {
		var evt timeline.Event
		var related sql.NullString
		if err := rows.Scan(
			&evt.ID,
			&evt.TenantID,
			&evt.ProjectID,
			&evt.Type,
			&evt.Title,
			&evt.Description,
			&related,
			&evt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		if related.Valid {
			evt.RelatedEntityID = &related.String
		}
		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}

	return events, nil
}
