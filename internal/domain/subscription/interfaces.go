package subscription

import "context"

// Repository provides persistence for tiers and subscriptions.
type Repository interface {
	ListTiers(ctx context.Context) ([]Tier, error)
	GetTier(ctx context.Context, id string) (*Tier, error)
	GetSubscription(ctx context.Context, tenantID string) (*Subscription, error)
	SaveSubscription(ctx context.Context, sub *Subscription) error
}
