package team_test

import (
	"context"
	"testing"

	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/matthallesq/modlab/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateMakesCreatorOwner(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TeamRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(nil)

	svc := team.NewService(repo, nil)
	created, err := svc.Create(ctx, tenantID, team.CreateRequest{
		Name:    "Growth",
		Creator: team.MemberInput{Name: "Ada", Email: " Ada@Example.com "},
	})
	require.NoError(t, err)
	require.Len(t, created.Members, 1)
	owner, ok := created.Owner()
	require.True(t, ok)
	require.Equal(t, "ada@example.com", owner.Email)
	require.Equal(t, created.ID, owner.TeamID)
}

func TestTeamService_CreateValidation(t *testing.T) {
	svc := team.NewService(&mocks.TeamRepository{}, nil)
	_, err := svc.Create(context.Background(), "tenant1", team.CreateRequest{Creator: team.MemberInput{Name: "A", Email: "a@b.c"}})
	require.ErrorIs(t, err, team.ErrInvalidInput)
	_, err = svc.Create(context.Background(), "tenant1", team.CreateRequest{Name: "T", Creator: team.MemberInput{Name: "A", Email: "nope"}})
	require.ErrorIs(t, err, team.ErrInvalidInput)
}

func TestTeamService_AddMember(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TeamRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&team.Team{ID: "t1", Name: "Growth"}, nil)
	repo.On("AddMember", ctx, tenantID, mock.Anything).Return(nil).Once()

	svc := team.NewService(repo, nil)
	m, err := svc.AddMember(ctx, tenantID, team.AddMemberRequest{TeamID: "t1", Member: team.MemberInput{Name: "Bo", Email: "bo@example.com"}})
	require.NoError(t, err)
	require.Equal(t, team.RoleMember, m.Role)

	_, err = svc.AddMember(ctx, tenantID, team.AddMemberRequest{TeamID: "t1", Member: team.MemberInput{Name: "Cy", Email: "cy@example.com"}, Role: team.RoleOwner})
	require.ErrorIs(t, err, team.ErrInvalidRole)

	repo.On("AddMember", ctx, tenantID, mock.Anything).Return(repository.ErrDuplicate).Once()
	_, err = svc.AddMember(ctx, tenantID, team.AddMemberRequest{TeamID: "t1", Member: team.MemberInput{Name: "Bo", Email: "bo@example.com"}})
	require.ErrorIs(t, err, team.ErrDuplicateMember)
}

func TestTeamService_OwnerCannotBeRemovedOrDemoted(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TeamRepository{}
	repo.On("GetMember", ctx, tenantID, "owner").Return(&team.Member{ID: "owner", Role: team.RoleOwner}, nil)
	repo.On("GetMember", ctx, tenantID, "m2").Return(&team.Member{ID: "m2", Role: team.RoleMember}, nil)
	repo.On("RemoveMember", ctx, tenantID, "m2").Return(nil)
	repo.On("UpdateMemberRole", ctx, tenantID, "m2", team.RoleAdmin).Return(nil)

	svc := team.NewService(repo, nil)
	require.ErrorIs(t, svc.RemoveMember(ctx, tenantID, "owner"), team.ErrOwnerRemoval)
	_, err := svc.UpdateMemberRole(ctx, tenantID, "owner", team.RoleViewer)
	require.ErrorIs(t, err, team.ErrOwnerRemoval)
	_, err = svc.UpdateMemberRole(ctx, tenantID, "m2", team.RoleOwner)
	require.ErrorIs(t, err, team.ErrInvalidRole)

	m, err := svc.UpdateMemberRole(ctx, tenantID, "m2", team.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, team.RoleAdmin, m.Role)
	require.NoError(t, svc.RemoveMember(ctx, tenantID, "m2"))
	repo.AssertNotCalled(t, "RemoveMember", ctx, tenantID, "owner")
}

func TestTeamService_RenameNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TeamRepository{}
	repo.On("Rename", ctx, "tenant1", "t9", "New").Return(repository.ErrNotFound)

	svc := team.NewService(repo, nil)
	_, err := svc.Rename(ctx, "tenant1", "t9", "New")
	require.ErrorIs(t, err, team.ErrTeamNotFound)
}
