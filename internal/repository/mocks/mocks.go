package mocks

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, proj, evt)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Count(ctx context.Context, tenantID string) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project, expectedVersion int64, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, proj, expectedVersion, evt)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ProjectRepository) TeamExists(ctx context.Context, tenantID, teamID string) (bool, error) {
	args := m.Called(ctx, tenantID, teamID)
	return args.Bool(0), args.Error(1)
}

// ExperimentRepository is a mock for experiment.Repository.
type ExperimentRepository struct {
	mock.Mock
}

func (m *ExperimentRepository) Create(ctx context.Context, tenantID string, exp *experiment.Experiment, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, exp, evt)
	return args.Error(0)
}

func (m *ExperimentRepository) Get(ctx context.Context, tenantID, id string) (*experiment.Experiment, error) {
	args := m.Called(ctx, tenantID, id)
	if exp, ok := args.Get(0).(*experiment.Experiment); ok {
		return exp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExperimentRepository) List(ctx context.Context, tenantID string, opts experiment.ListOptions) ([]experiment.Experiment, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]experiment.Experiment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExperimentRepository) Count(ctx context.Context, tenantID, projectID string) (int, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Int(0), args.Error(1)
}

func (m *ExperimentRepository) Update(ctx context.Context, tenantID string, exp *experiment.Experiment, expectedVersion int64, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, exp, expectedVersion, evt)
	return args.Error(0)
}

func (m *ExperimentRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ExperimentRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Bool(0), args.Error(1)
}

// InsightRepository is a mock for insight.Repository.
type InsightRepository struct {
	mock.Mock
}

func (m *InsightRepository) Create(ctx context.Context, tenantID string, in *insight.Insight, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, in, evt)
	return args.Error(0)
}

func (m *InsightRepository) Get(ctx context.Context, tenantID, id string) (*insight.Insight, error) {
	args := m.Called(ctx, tenantID, id)
	if in, ok := args.Get(0).(*insight.Insight); ok {
		return in, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InsightRepository) List(ctx context.Context, tenantID string, opts insight.ListOptions) ([]insight.Insight, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]insight.Insight); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InsightRepository) Update(ctx context.Context, tenantID string, in *insight.Insight, expectedVersion int64) error {
	args := m.Called(ctx, tenantID, in, expectedVersion)
	return args.Error(0)
}

func (m *InsightRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *InsightRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *InsightRepository) ExperimentProject(ctx context.Context, tenantID, experimentID string) (string, error) {
	args := m.Called(ctx, tenantID, experimentID)
	return args.String(0), args.Error(1)
}

// TeamRepository is a mock for team.Repository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Create(ctx context.Context, tenantID string, t *team.Team) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TeamRepository) Get(ctx context.Context, tenantID, id string) (*team.Team, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) List(ctx context.Context, tenantID string) ([]team.Team, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]team.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) Rename(ctx context.Context, tenantID, id, name string) error {
	args := m.Called(ctx, tenantID, id, name)
	return args.Error(0)
}

func (m *TeamRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *TeamRepository) AddMember(ctx context.Context, tenantID string, member *team.Member) error {
	args := m.Called(ctx, tenantID, member)
	return args.Error(0)
}

func (m *TeamRepository) GetMember(ctx context.Context, tenantID, id string) (*team.Member, error) {
	args := m.Called(ctx, tenantID, id)
	if member, ok := args.Get(0).(*team.Member); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) UpdateMemberRole(ctx context.Context, tenantID, id string, role team.Role) error {
	args := m.Called(ctx, tenantID, id, role)
	return args.Error(0)
}

func (m *TeamRepository) RemoveMember(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// CanvasRepository is a mock for canvas.Repository.
type CanvasRepository struct {
	mock.Mock
}

func (m *CanvasRepository) Get(ctx context.Context, tenantID, projectID string, t canvas.Type) (*canvas.Canvas, error) {
	args := m.Called(ctx, tenantID, projectID, t)
	if c, ok := args.Get(0).(*canvas.Canvas); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CanvasRepository) Save(ctx context.Context, tenantID string, c *canvas.Canvas, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, c, evt)
	return args.Error(0)
}

func (m *CanvasRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Bool(0), args.Error(1)
}

// TimelineRepository is a mock for timeline.Repository.
type TimelineRepository struct {
	mock.Mock
}

func (m *TimelineRepository) Log(ctx context.Context, tenantID string, evt *timeline.Event) error {
	args := m.Called(ctx, tenantID, evt)
	return args.Error(0)
}

func (m *TimelineRepository) List(ctx context.Context, tenantID string, opts timeline.ListOptions) ([]timeline.Event, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]timeline.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SubscriptionRepository is a mock for subscription.Repository.
type SubscriptionRepository struct {
	mock.Mock
}

func (m *SubscriptionRepository) ListTiers(ctx context.Context) ([]subscription.Tier, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]subscription.Tier); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriptionRepository) GetTier(ctx context.Context, id string) (*subscription.Tier, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*subscription.Tier); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriptionRepository) GetSubscription(ctx context.Context, tenantID string) (*subscription.Subscription, error) {
	args := m.Called(ctx, tenantID)
	if s, ok := args.Get(0).(*subscription.Subscription); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriptionRepository) SaveSubscription(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// UserRepository is a mock for auth.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *auth.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for auth.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) TenantForKey(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}

// Limiter is a mock for the capacity checks used by project and experiment services.
type Limiter struct {
	mock.Mock
}

func (m *Limiter) Check(ctx context.Context, tenantID string, r subscription.Resource, current int) error {
	args := m.Called(ctx, tenantID, r, current)
	return args.Error(0)
}
