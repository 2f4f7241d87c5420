package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(id, name string) *project.Project {
	now := time.Now().UTC()
	return &project.Project{ID: id, Name: name, Version: 1, CreatedAt: now, UpdatedAt: now}
}

func createTestProject(t *testing.T, db *DB, tenantID, id string) *project.Project {
	t.Helper()
	proj := newProject(id, "Project "+id)
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), tenantID, proj, nil))
	return proj
}

func TestProjectRepository_CreateWritesTimelineInSameTx(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", "Alpha")
	evt := timeline.NewEvent("p1", timeline.TypeProjectCreated, "Project created", "Alpha", "p1")
	require.NoError(t, repo.Create(ctx, "tenant1", proj, evt))

	got, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "Alpha", got.Name)
	require.Nil(t, got.TeamID)
	require.Nil(t, got.ModelType)
	require.False(t, got.Archived)

	events, err := NewTimelineRepository(db).List(ctx, "tenant1", timeline.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, timeline.TypeProjectCreated, events[0].Type)

	// Duplicate id rolls back the event too.
	dup := timeline.NewEvent("p1", timeline.TypeProjectCreated, "Project created", "again", "p1")
	require.ErrorIs(t, repo.Create(ctx, "tenant1", newProject("p1", "Again"), dup), repository.ErrDuplicate)
	events, err = NewTimelineRepository(db).List(ctx, "tenant1", timeline.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestProjectRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	createTestProject(t, db, "tenant1", "p1")
	_, err := repo.Get(ctx, "tenant2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx, "tenant2", project.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProjectRepository_UpdateVersionGuard(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := createTestProject(t, db, "tenant1", "p1")
	model := canvas.TypeSocialBusiness
	proj.ModelType = &model
	proj.Version = 2
	require.NoError(t, repo.Update(ctx, "tenant1", proj, 1, nil))

	got, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, canvas.TypeSocialBusiness, *got.ModelType)
	require.Equal(t, int64(2), got.Version)

	proj.Version = 3
	require.ErrorIs(t, repo.Update(ctx, "tenant1", proj, 1, nil), repository.ErrConflict)

	ghost := newProject("ghost", "Ghost")
	require.ErrorIs(t, repo.Update(ctx, "tenant1", ghost, 1, nil), repository.ErrNotFound)
}

func TestProjectRepository_ListSkipsArchivedAndCountsAnalytics(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	expRepo := NewExperimentRepository(db)
	ctx := context.Background()

	createTestProject(t, db, "tenant1", "p1")
	archived := createTestProject(t, db, "tenant1", "p2")
	archived.Archived = true
	archived.Version = 2
	require.NoError(t, repo.Update(ctx, "tenant1", archived, 1, nil))

	require.NoError(t, expRepo.Create(ctx, "tenant1", newExperiment("e1", "p1", experiment.StatusRunning), nil))
	require.NoError(t, expRepo.Create(ctx, "tenant1", newExperiment("e2", "p1", experiment.StatusCompleted), nil))
	require.NoError(t, expRepo.Create(ctx, "tenant1", newExperiment("e3", "p1", experiment.StatusBacklog), nil))

	list, err := repo.List(ctx, "tenant1", project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, project.Analytics{Experiments: 3, RunningExperiments: 1, CompletedExperiments: 1}, list[0].Analytics)

	list, err = repo.List(ctx, "tenant1", project.ListOptions{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, list, 2)

	count, err := repo.Count(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	expRepo := NewExperimentRepository(db)
	ctx := context.Background()

	createTestProject(t, db, "tenant1", "p1")
	evt := timeline.NewEvent("p1", timeline.TypeExperimentCreated, "Experiment created", "", "e1")
	require.NoError(t, expRepo.Create(ctx, "tenant1", newExperiment("e1", "p1", experiment.StatusBacklog), evt))

	require.NoError(t, repo.Delete(ctx, "tenant1", "p1"))
	_, err := expRepo.Get(ctx, "tenant1", "e1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	events, err := NewTimelineRepository(db).List(ctx, "tenant1", timeline.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Empty(t, events)

	require.ErrorIs(t, repo.Delete(ctx, "tenant1", "p1"), repository.ErrNotFound)
}

func TestProjectRepository_TeamAssignment(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	createTestTeam(t, db, "tenant1", "team1")
	ok, err := repo.TeamExists(ctx, "tenant1", "team1")
	require.NoError(t, err)
	require.True(t, ok)

	proj := createTestProject(t, db, "tenant1", "p1")
	teamID := "team1"
	proj.TeamID = &teamID
	proj.Version = 2
	require.NoError(t, repo.Update(ctx, "tenant1", proj, 1, nil))

	// Deleting the team unassigns the project.
	require.NoError(t, NewTeamRepository(db).Delete(ctx, "tenant1", "team1"))
	got, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Nil(t, got.TeamID)
}
