package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(raw), nil
}

func decodeList(raw string) ([]string, error) {
	values := []string{}
	if strings.TrimSpace(raw) == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}

func joinConditions(conditions []string) string {
	return strings.Join(conditions, " AND ")
}

// logEvent writes a timeline event inside the caller's transaction.
func logEvent(ctx context.Context, tx *Tx, tenantID string, evt *timeline.Event) error {
	if evt == nil {
		return nil
	}
	evt.TenantID = tenantID
	_, err := tx.ExecContext(ctx, `
		INSERT INTO timeline_events (id, tenant_id, project_id, event_type, title, description, related_entity_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		evt.ID,
		tenantID,
		evt.ProjectID,
		evt.Type,
		evt.Title,
		evt.Description,
		evt.RelatedEntityID,
		evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log timeline event: %w", err)
	}
	return nil
}

// rowExists reports whether table holds a row with id for the tenant.
func (db *DB) rowExists(ctx context.Context, table, tenantID, id string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM " + table + " WHERE id = ? AND tenant_id = ?"
	if err := db.QueryRowContext(ctx, query, id, tenantID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return count > 0, nil
}
