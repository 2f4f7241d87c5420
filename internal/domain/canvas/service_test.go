package canvas_test

import (
	"context"
	"testing"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/matthallesq/modlab/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCanvasService_GetEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CanvasRepository{}
	repo.On("ProjectExists", ctx, "tenant1", "p1").Return(true, nil)
	repo.On("Get", ctx, "tenant1", "p1", canvas.TypeBusinessModel).Return(nil, repository.ErrNotFound)

	svc := canvas.NewService(repo, nil)
	c, err := svc.Get(ctx, "tenant1", "p1", canvas.TypeBusinessModel)
	require.NoError(t, err)
	require.Len(t, c.Sections, 9)
	require.Empty(t, c.Sections[canvas.KeyPartners])
}

func TestCanvasService_AddAndCycleItem(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	stored := canvas.Empty("p1", canvas.TypeBusinessModel)
	repo := &mocks.CanvasRepository{}
	repo.On("ProjectExists", ctx, tenantID, "p1").Return(true, nil)
	repo.On("Get", ctx, tenantID, "p1", canvas.TypeBusinessModel).Return(stored, nil)
	repo.On("Save", ctx, tenantID, mock.Anything, mock.Anything).Return(nil)

	svc := canvas.NewService(repo, nil)
	item, err := svc.AddItem(ctx, tenantID, "p1", canvas.TypeBusinessModel, canvas.CustomerSegments, "Freelancers")
	require.NoError(t, err)
	require.Equal(t, canvas.StatusAssumption, item.Status)
	require.Len(t, stored.Sections[canvas.CustomerSegments], 1)

	item, err = svc.CycleItem(ctx, tenantID, "p1", canvas.TypeBusinessModel, item.ID)
	require.NoError(t, err)
	require.Equal(t, canvas.StatusTesting, item.Status)

	item, err = svc.CycleItem(ctx, tenantID, "p1", canvas.TypeBusinessModel, item.ID)
	require.NoError(t, err)
	require.Equal(t, canvas.StatusValidated, item.Status)

	repo.AssertCalled(t, "Save", ctx, tenantID, mock.Anything, mock.MatchedBy(func(evt *timeline.Event) bool {
		return evt != nil && evt.Type == timeline.TypeCanvasUpdated && evt.Title == "Validated customer_segments item"
	}))

	_, err = svc.CycleItem(ctx, tenantID, "p1", canvas.TypeBusinessModel, "missing")
	require.ErrorIs(t, err, canvas.ErrItemNotFound)
}

func TestCanvasService_RejectsForeignSection(t *testing.T) {
	svc := canvas.NewService(&mocks.CanvasRepository{}, nil)
	_, err := svc.AddItem(context.Background(), "tenant1", "p1", canvas.TypeBusinessModel, canvas.Surplus, "text")
	require.ErrorIs(t, err, canvas.ErrSectionMismatch)

	_, err = svc.AddItem(context.Background(), "tenant1", "p1", canvas.Type("lean"), canvas.Channels, "text")
	require.ErrorIs(t, err, canvas.ErrUnknownType)

	_, err = svc.AddItem(context.Background(), "tenant1", "p1", canvas.TypeBusinessModel, canvas.Channels, "  ")
	require.ErrorIs(t, err, canvas.ErrInvalidInput)
}

func TestCanvasService_UpdateAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	stored := canvas.Empty("p1", canvas.TypeProduct)
	stored.Sections[canvas.Needs] = []canvas.Item{
		{ID: "a", Text: "one", Status: canvas.StatusAssumption},
		{ID: "b", Text: "two", Status: canvas.StatusTesting},
	}
	repo := &mocks.CanvasRepository{}
	repo.On("ProjectExists", ctx, tenantID, "p1").Return(true, nil)
	repo.On("Get", ctx, tenantID, "p1", canvas.TypeProduct).Return(stored, nil)
	repo.On("Save", ctx, tenantID, mock.Anything, (*timeline.Event)(nil)).Return(nil)

	svc := canvas.NewService(repo, nil)
	item, err := svc.UpdateItemText(ctx, tenantID, "p1", canvas.TypeProduct, "b", "two, revised")
	require.NoError(t, err)
	require.Equal(t, "two, revised", item.Text)

	require.NoError(t, svc.RemoveItem(ctx, tenantID, "p1", canvas.TypeProduct, "a"))
	require.Len(t, stored.Sections[canvas.Needs], 1)
	require.Equal(t, "b", stored.Sections[canvas.Needs][0].ID)

	require.ErrorIs(t, svc.RemoveItem(ctx, tenantID, "p1", canvas.TypeProduct, "a"), canvas.ErrItemNotFound)
}

func TestCanvasService_ProjectMissing(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CanvasRepository{}
	repo.On("ProjectExists", ctx, "tenant1", "ghost").Return(false, nil)

	svc := canvas.NewService(repo, nil)
	_, err := svc.Get(ctx, "tenant1", "ghost", canvas.TypeProduct)
	require.ErrorIs(t, err, canvas.ErrProjectNotFound)
}
