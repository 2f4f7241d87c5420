package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/stretchr/testify/require"
)

func newExperiment(id, projectID string, status experiment.Status) *experiment.Experiment {
	now := time.Now().UTC()
	return &experiment.Experiment{
		ID:         id,
		ProjectID:  projectID,
		Title:      "Experiment " + id,
		Hypothesis: "People will pay",
		Status:     status,
		Priority:   experiment.PriorityMedium,
		Assignees:  []string{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestExperimentRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	repo := NewExperimentRepository(db)
	ctx := context.Background()
	createTestProject(t, db, "tenant1", "p1")

	exp := newExperiment("e1", "p1", experiment.StatusBacklog)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	exp.DueDate = &due
	exp.Assignees = []string{"ada@example.com"}
	require.NoError(t, repo.Create(ctx, "tenant1", exp, nil))

	got, err := repo.Get(ctx, "tenant1", "e1")
	require.NoError(t, err)
	require.Equal(t, experiment.StatusBacklog, got.Status)
	require.Equal(t, []string{"ada@example.com"}, got.Assignees)
	require.NotNil(t, got.DueDate)
	require.True(t, due.Equal(*got.DueDate))
	require.Nil(t, got.Results)

	results := "3 signups"
	got.Results = &results
	got.Status = experiment.StatusRunning
	got.Version = 2
	evt := timeline.NewEvent("p1", timeline.TypeExperimentRunning, "Experiment started", got.Title, "e1")
	require.NoError(t, repo.Update(ctx, "tenant1", got, 1, evt))

	got, err = repo.Get(ctx, "tenant1", "e1")
	require.NoError(t, err)
	require.Equal(t, experiment.StatusRunning, got.Status)
	require.Equal(t, "3 signups", *got.Results)

	related := "e1"
	events, err := NewTimelineRepository(db).List(ctx, "tenant1", timeline.ListOptions{RelatedEntityID: &related})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, timeline.TypeExperimentRunning, events[0].Type)

	require.ErrorIs(t, repo.Update(ctx, "tenant1", got, 1, nil), repository.ErrConflict)

	require.NoError(t, repo.Delete(ctx, "tenant1", "e1"))
	require.ErrorIs(t, repo.Delete(ctx, "tenant1", "e1"), repository.ErrNotFound)
}

func TestExperimentRepository_ForeignKey(t *testing.T) {
	db := NewTestDB(t)
	repo := NewExperimentRepository(db)
	err := repo.Create(context.Background(), "tenant1", newExperiment("e1", "ghost", experiment.StatusBacklog), nil)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestExperimentRepository_ListAndCount(t *testing.T) {
	db := NewTestDB(t)
	repo := NewExperimentRepository(db)
	ctx := context.Background()
	createTestProject(t, db, "tenant1", "p1")
	createTestProject(t, db, "tenant1", "p2")

	require.NoError(t, repo.Create(ctx, "tenant1", newExperiment("e1", "p1", experiment.StatusBacklog), nil))
	require.NoError(t, repo.Create(ctx, "tenant1", newExperiment("e2", "p1", experiment.StatusRunning), nil))
	require.NoError(t, repo.Create(ctx, "tenant1", newExperiment("e3", "p2", experiment.StatusRunning), nil))

	list, err := repo.List(ctx, "tenant1", experiment.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	running := experiment.StatusRunning
	list, err = repo.List(ctx, "tenant1", experiment.ListOptions{ProjectID: "p1", Status: &running})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "e2", list[0].ID)

	count, err := repo.Count(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestInsightRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	repo := NewInsightRepository(db)
	ctx := context.Background()
	createTestProject(t, db, "tenant1", "p1")
	require.NoError(t, NewExperimentRepository(db).Create(ctx, "tenant1", newExperiment("e1", "p1", experiment.StatusCompleted), nil))

	owner, err := repo.ExperimentProject(ctx, "tenant1", "e1")
	require.NoError(t, err)
	require.Equal(t, "p1", owner)
	_, err = repo.ExperimentProject(ctx, "tenant1", "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)

	now := time.Now().UTC()
	exp := "e1"
	in := &insight.Insight{
		ID: "i1", ProjectID: "p1", ExperimentID: &exp, Title: "Pricing", InsightText: "Nobody pays monthly",
		Assignees: []string{}, Version: 1, CreatedAt: now, UpdatedAt: now,
	}
	evt := timeline.NewEvent("p1", timeline.TypeInsightAdded, "Insight added", "Pricing", "i1")
	require.NoError(t, repo.Create(ctx, "tenant1", in, evt))

	list, err := repo.List(ctx, "tenant1", insight.ListOptions{ProjectID: "p1", ExperimentID: &exp})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "e1", *list[0].ExperimentID)

	// Deleting the experiment keeps the insight but drops the link.
	require.NoError(t, NewExperimentRepository(db).Delete(ctx, "tenant1", "e1"))
	got, err := repo.Get(ctx, "tenant1", "i1")
	require.NoError(t, err)
	require.Nil(t, got.ExperimentID)

	got.NextSteps = "Try annual plans"
	got.Version = 2
	require.NoError(t, repo.Update(ctx, "tenant1", got, 1))
	require.ErrorIs(t, repo.Update(ctx, "tenant1", got, 1), repository.ErrConflict)

	require.NoError(t, repo.Delete(ctx, "tenant1", "i1"))
	_, err = repo.Get(ctx, "tenant1", "i1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
