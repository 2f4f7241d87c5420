package insight

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// Repository provides persistence for insights.
type Repository interface {
	Create(ctx context.Context, tenantID string, in *Insight, evt *timeline.Event) error
	Get(ctx context.Context, tenantID, id string) (*Insight, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Insight, error)
	Update(ctx context.Context, tenantID string, in *Insight, expectedVersion int64) error
	Delete(ctx context.Context, tenantID, id string) error
	ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error)
	// ExperimentProject returns the project owning experimentID.
	ExperimentProject(ctx context.Context, tenantID, experimentID string) (string, error)
}
