package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matthallesq/modlab/internal/repository"
)

// Service resolves tenant tiers and enforces capacity.
type Service struct {
	repo   Repository
	policy *Policy
	logger *slog.Logger
}

// NewService creates a new subscription service. A nil policy uses DefaultPolicy.
func NewService(repo Repository, policy *Policy, logger *slog.Logger) *Service {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Service{repo: repo, policy: policy, logger: logger}
}

// ListTiers returns every tier, cheapest first.
func (s *Service) ListTiers(ctx context.Context) ([]Tier, error) {
	tiers, err := s.repo.ListTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tiers: %w", err)
	}
	return tiers, nil
}

// Current returns the tenant's subscription, defaulting to the free tier.
func (s *Service) Current(ctx context.Context, tenantID string) (*Current, error) {
	sub, err := s.repo.GetSubscription(ctx, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		sub = &Subscription{TenantID: tenantID, TierID: TierFree, Status: StatusActive}
	} else if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	tier, err := s.repo.GetTier(ctx, sub.TierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("getting tier: %w", err)
	}
	return &Current{Subscription: *sub, Tier: *tier}, nil
}

// ChangeTier moves the tenant to tierID. Payment is handled outside the store.
func (s *Service) ChangeTier(ctx context.Context, tenantID, tierID string) (*Current, error) {
	tier, err := s.repo.GetTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("getting tier: %w", err)
	}

	sub := &Subscription{
		TenantID:  tenantID,
		TierID:    tier.ID,
		Status:    StatusActive,
		StartedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("saving subscription: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("subscription changed", "tenant_id", tenantID, "tier", tier.ID)
	}
	return &Current{Subscription: *sub, Tier: *tier}, nil
}

// Check returns ErrLimitReached when the tenant cannot add another r.
func (s *Service) Check(ctx context.Context, tenantID string, r Resource, current int) error {
	cur, err := s.Current(ctx, tenantID)
	if err != nil {
		return err
	}
	return s.policy.Check(cur.Tier, r, current)
}
