package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// CanvasRepository implements canvas.Repository. Sections are stored as one
// JSON document per project and canvas type.
type CanvasRepository struct {
	db *DB
}

// NewCanvasRepository creates a new CanvasRepository
func NewCanvasRepository(db *DB) *CanvasRepository {
	return &CanvasRepository{db: db}
}

// Get retrieves a stored canvas
func (r *CanvasRepository) Get(ctx context.Context, tenantID, projectID string, t canvas.Type) (*canvas.Canvas, error) {
	var raw string
	c := &canvas.Canvas{ProjectID: projectID, Type: t}
	err := r.db.QueryRowContext(ctx, `
		SELECT sections, updated_at
		FROM canvases
		WHERE tenant_id = ? AND project_id = ? AND canvas_type = ?
	`, tenantID, projectID, t).Scan(&raw, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &c.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode canvas sections: %w", err)
	}
	return c, nil
}

// Save upserts a canvas and logs evt in the same transaction
func (r *CanvasRepository) Save(ctx context.Context, tenantID string, c *canvas.Canvas, evt *timeline.Event) error {
	raw, err := json.Marshal(c.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode canvas sections: %w", err)
	}
	return r.db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO canvases (tenant_id, project_id, canvas_type, sections, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (project_id, canvas_type)
			DO UPDATE SET sections = excluded.sections, updated_at = excluded.updated_at
		`, tenantID, c.ProjectID, c.Type, string(raw), c.UpdatedAt)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to save canvas: %w", err)
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// ProjectExists reports whether the tenant owns projectID
func (r *CanvasRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	return r.db.rowExists(ctx, "projects", tenantID, projectID)
}
