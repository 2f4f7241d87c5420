package insight_test

import (
	"context"
	"testing"

	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/matthallesq/modlab/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInsightService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.InsightRepository{}
	repo.On("ProjectExists", ctx, tenantID, "p1").Return(true, nil)
	repo.On("ExperimentProject", ctx, tenantID, "e1").Return("p1", nil)
	repo.On("Create", ctx, tenantID, mock.Anything, mock.MatchedBy(func(evt *timeline.Event) bool {
		return evt.Type == timeline.TypeInsightAdded
	})).Return(nil)

	svc := insight.NewService(repo, nil)
	exp := "e1"
	in, err := svc.Create(ctx, tenantID, insight.CreateRequest{
		ProjectID:    "p1",
		ExperimentID: &exp,
		Title:        "Users want exports",
		InsightText:  "5 of 8 interviewees asked for CSV",
	})
	require.NoError(t, err)
	require.NotEmpty(t, in.ID)
	require.Equal(t, int64(1), in.Version)
	repo.AssertExpectations(t)
}

func TestInsightService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.InsightRepository{}
	svc := insight.NewService(repo, nil)

	_, err := svc.Create(ctx, tenantID, insight.CreateRequest{ProjectID: "p1", InsightText: "x"})
	require.ErrorIs(t, err, insight.ErrInvalidInput)
	_, err = svc.Create(ctx, tenantID, insight.CreateRequest{ProjectID: "p1", Title: "x"})
	require.ErrorIs(t, err, insight.ErrInvalidInput)

	repo.On("ProjectExists", ctx, tenantID, "p1").Return(true, nil)
	repo.On("ExperimentProject", ctx, tenantID, "other").Return("p2", nil)
	repo.On("ExperimentProject", ctx, tenantID, "ghost").Return("", repository.ErrNotFound)

	other := "other"
	_, err = svc.Create(ctx, tenantID, insight.CreateRequest{ProjectID: "p1", ExperimentID: &other, Title: "t", InsightText: "i"})
	require.ErrorIs(t, err, insight.ErrExperimentMismatch)

	ghost := "ghost"
	_, err = svc.Create(ctx, tenantID, insight.CreateRequest{ProjectID: "p1", ExperimentID: &ghost, Title: "t", InsightText: "i"})
	require.ErrorIs(t, err, insight.ErrExperimentMismatch)
}

func TestInsightService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.InsightRepository{}
	repo.On("Get", ctx, tenantID, "i1").Return(&insight.Insight{ID: "i1", ProjectID: "p1", Title: "T", InsightText: "I", Version: 1}, nil)
	repo.On("Update", ctx, tenantID, mock.Anything, int64(1)).Return(nil)

	svc := insight.NewService(repo, nil)
	next := "Ship CSV export"
	in, err := svc.Update(ctx, tenantID, "i1", insight.UpdateRequest{NextSteps: &next})
	require.NoError(t, err)
	require.Equal(t, "Ship CSV export", in.NextSteps)
	require.Equal(t, int64(2), in.Version)

	empty := " "
	_, err = svc.Update(ctx, tenantID, "i1", insight.UpdateRequest{InsightText: &empty})
	require.ErrorIs(t, err, insight.ErrInvalidInput)
}

func TestInsightService_ListRequiresProject(t *testing.T) {
	svc := insight.NewService(&mocks.InsightRepository{}, nil)
	_, err := svc.List(context.Background(), "tenant1", insight.ListOptions{})
	require.ErrorIs(t, err, insight.ErrInvalidInput)
}
