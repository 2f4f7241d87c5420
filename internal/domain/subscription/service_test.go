package subscription_test

import (
	"context"
	"testing"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/repository"
	"github.com/matthallesq/modlab/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_DefaultsToFree(t *testing.T) {
	ctx := context.Background()
	free := subscription.FreeTier()

	repo := &mocks.SubscriptionRepository{}
	repo.On("GetSubscription", ctx, "tenant1").Return(nil, repository.ErrNotFound)
	repo.On("GetTier", ctx, subscription.TierFree).Return(&free, nil)

	svc := subscription.NewService(repo, nil, nil)
	cur, err := svc.Current(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, subscription.TierFree, cur.Tier.ID)
	require.Equal(t, subscription.StatusActive, cur.Subscription.Status)

	require.NoError(t, svc.Check(ctx, "tenant1", subscription.ResourceExperiments, 2))
	require.ErrorIs(t, svc.Check(ctx, "tenant1", subscription.ResourceExperiments, 3), subscription.ErrLimitReached)
}

func TestSubscriptionService_ChangeTier(t *testing.T) {
	ctx := context.Background()
	pro := professional()

	repo := &mocks.SubscriptionRepository{}
	repo.On("GetTier", ctx, subscription.TierProfessional).Return(&pro, nil)
	repo.On("GetTier", ctx, "platinum").Return(nil, repository.ErrNotFound)
	repo.On("SaveSubscription", ctx, mock.MatchedBy(func(s *subscription.Subscription) bool {
		return s.TenantID == "tenant1" && s.TierID == subscription.TierProfessional
	})).Return(nil)

	svc := subscription.NewService(repo, nil, nil)
	cur, err := svc.ChangeTier(ctx, "tenant1", subscription.TierProfessional)
	require.NoError(t, err)
	require.Equal(t, 10, cur.Tier.MaxExperiments)

	_, err = svc.ChangeTier(ctx, "tenant1", "platinum")
	require.ErrorIs(t, err, subscription.ErrTierNotFound)
}
