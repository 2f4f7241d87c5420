package subscription_test

import (
	"testing"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/stretchr/testify/require"
)

func professional() subscription.Tier {
	return subscription.Tier{ID: subscription.TierProfessional, Name: "Professional", MaxProjects: 10, MaxExperiments: 10}
}

func TestPolicy_DefaultRule(t *testing.T) {
	p := subscription.DefaultPolicy()

	require.NoError(t, p.Check(professional(), subscription.ResourceExperiments, 9))
	err := p.Check(professional(), subscription.ResourceExperiments, 10)
	require.ErrorIs(t, err, subscription.ErrLimitReached)
	require.Contains(t, err.Error(), "Professional")

	enterprise := subscription.Tier{ID: subscription.TierEnterprise, MaxProjects: subscription.Unlimited, MaxExperiments: subscription.Unlimited}
	require.NoError(t, p.Check(enterprise, subscription.ResourceProjects, 10_000))

	require.ErrorIs(t, p.Check(subscription.FreeTier(), subscription.ResourceProjects, 1), subscription.ErrLimitReached)
}

func TestPolicy_CustomRule(t *testing.T) {
	p, err := subscription.NewPolicy(map[subscription.Resource]string{
		subscription.ResourceProjects: `tier == "enterprise" || current < max + 2`,
	})
	require.NoError(t, err)

	require.NoError(t, p.Check(subscription.FreeTier(), subscription.ResourceProjects, 2))
	require.ErrorIs(t, p.Check(subscription.FreeTier(), subscription.ResourceProjects, 3), subscription.ErrLimitReached)
	// experiments keep the default rule
	require.ErrorIs(t, p.Check(subscription.FreeTier(), subscription.ResourceExperiments, 3), subscription.ErrLimitReached)
}

func TestPolicy_InvalidRule(t *testing.T) {
	_, err := subscription.NewPolicy(map[subscription.Resource]string{
		subscription.ResourceProjects: `current +`,
	})
	require.ErrorIs(t, err, subscription.ErrInvalidRule)

	_, err = subscription.NewPolicy(map[subscription.Resource]string{
		subscription.ResourceProjects: `current`,
	})
	require.ErrorIs(t, err, subscription.ErrInvalidRule)
}
