package experiment

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// Repository provides persistence for experiments.
type Repository interface {
	Create(ctx context.Context, tenantID string, exp *Experiment, evt *timeline.Event) error
	Get(ctx context.Context, tenantID, id string) (*Experiment, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Experiment, error)
	Count(ctx context.Context, tenantID, projectID string) (int, error)
	Update(ctx context.Context, tenantID string, exp *Experiment, expectedVersion int64, evt *timeline.Event) error
	Delete(ctx context.Context, tenantID, id string) error
	ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error)
}

// Limiter checks subscription capacity before creation.
type Limiter interface {
	Check(ctx context.Context, tenantID string, r subscription.Resource, current int) error
}
