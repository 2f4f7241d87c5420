package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/stretchr/testify/require"
)

func createTestTeam(t *testing.T, db *DB, tenantID, id string) *team.Team {
	t.Helper()
	now := time.Now().UTC()
	tm := &team.Team{
		ID: id, Name: "Team " + id, CreatedAt: now, UpdatedAt: now,
		Members: []team.Member{{ID: id + "-owner", TeamID: id, Name: "Owner", Email: "owner@" + id + ".test", Role: team.RoleOwner, CreatedAt: now}},
	}
	require.NoError(t, NewTeamRepository(db).Create(context.Background(), tenantID, tm))
	return tm
}

func TestTeamRepository_MembersLifecycle(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()
	createTestTeam(t, db, "tenant1", "t1")

	member := &team.Member{ID: "m2", TeamID: "t1", Name: "Bo", Email: "bo@example.com", Role: team.RoleMember, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.AddMember(ctx, "tenant1", member))

	dup := *member
	dup.ID = "m3"
	require.ErrorIs(t, repo.AddMember(ctx, "tenant1", &dup), repository.ErrDuplicate)

	orphan := &team.Member{ID: "m4", TeamID: "ghost", Name: "X", Email: "x@example.com", Role: team.RoleMember, CreatedAt: time.Now().UTC()}
	require.ErrorIs(t, repo.AddMember(ctx, "tenant1", orphan), repository.ErrForeignKeyViolation)

	got, err := repo.Get(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	require.Equal(t, team.RoleOwner, got.Members[0].Role)

	require.NoError(t, repo.UpdateMemberRole(ctx, "tenant1", "m2", team.RoleAdmin))
	m, err := repo.GetMember(ctx, "tenant1", "m2")
	require.NoError(t, err)
	require.Equal(t, team.RoleAdmin, m.Role)

	require.NoError(t, repo.RemoveMember(ctx, "tenant1", "m2"))
	require.ErrorIs(t, repo.RemoveMember(ctx, "tenant1", "m2"), repository.ErrNotFound)
}

func TestTeamRepository_ListAndRename(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()
	createTestTeam(t, db, "tenant1", "t1")
	createTestTeam(t, db, "tenant1", "t2")
	createTestTeam(t, db, "tenant2", "t3")

	teams, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	for _, tm := range teams {
		require.Len(t, tm.Members, 1)
	}

	require.NoError(t, repo.Rename(ctx, "tenant1", "t1", "Growth"))
	got, err := repo.Get(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Equal(t, "Growth", got.Name)

	require.ErrorIs(t, repo.Rename(ctx, "tenant1", "t3", "Stolen"), repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "tenant1", "t1"))
	_, err = repo.GetMember(ctx, "tenant1", "t1-owner")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
