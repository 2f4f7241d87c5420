package project

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// Repository provides persistence for projects.
type Repository interface {
	// Create inserts the project and, when evt is non-nil, logs it in the same transaction.
	Create(ctx context.Context, tenantID string, proj *Project, evt *timeline.Event) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error)
	Count(ctx context.Context, tenantID string) (int, error)
	// Update writes proj if the stored version still equals expectedVersion.
	Update(ctx context.Context, tenantID string, proj *Project, expectedVersion int64, evt *timeline.Event) error
	Delete(ctx context.Context, tenantID, id string) error
	TeamExists(ctx context.Context, tenantID, teamID string) (bool, error)
}

// Limiter checks subscription capacity before creation.
type Limiter interface {
	Check(ctx context.Context, tenantID string, r subscription.Resource, current int) error
}
