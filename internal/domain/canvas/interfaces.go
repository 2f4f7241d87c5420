package canvas

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// Repository provides persistence for canvases.
type Repository interface {
	Get(ctx context.Context, tenantID, projectID string, t Type) (*Canvas, error)
	// Save upserts the canvas and, when evt is non-nil, logs it in the same transaction.
	Save(ctx context.Context, tenantID string, c *Canvas, evt *timeline.Event) error
	ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error)
}
