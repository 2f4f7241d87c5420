package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/repository"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const tierColumns = `id, name, max_projects, max_experiments, features, price_cents`

func scanTier(row rowScanner) (*subscription.Tier, error) {
	var t subscription.Tier
	var features string
	if err := row.Scan(&t.ID, &t.Name, &t.MaxProjects, &t.MaxExperiments, &features, &t.PriceCents); err != nil {
		return nil, err
	}
	var err error
	if t.Features, err = decodeList(features); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTiers returns all tiers in display order
func (r *SubscriptionRepository) ListTiers(ctx context.Context) ([]subscription.Tier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tierColumns+` FROM subscription_tiers ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	defer rows.Close()

	tiers := []subscription.Tier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		tiers = append(tiers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tier rows: %w", err)
	}
	return tiers, nil
}

// GetTier retrieves a tier by ID
func (r *SubscriptionRepository) GetTier(ctx context.Context, id string) (*subscription.Tier, error) {
	t, err := scanTier(r.db.QueryRowContext(ctx, `SELECT `+tierColumns+` FROM subscription_tiers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tier: %w", err)
	}
	return t, nil
}

// GetSubscription retrieves the tenant's subscription
func (r *SubscriptionRepository) GetSubscription(ctx context.Context, tenantID string) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT tenant_id, tier_id, status, started_at
		FROM user_subscriptions
		WHERE tenant_id = ?
	`, tenantID).Scan(&s.TenantID, &s.TierID, &s.Status, &s.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &s, nil
}

// SaveSubscription upserts the tenant's subscription
func (r *SubscriptionRepository) SaveSubscription(ctx context.Context, sub *subscription.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_subscriptions (tenant_id, tier_id, status, started_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant_id)
		DO UPDATE SET tier_id = excluded.tier_id, status = excluded.status, started_at = excluded.started_at
	`, sub.TenantID, sub.TierID, sub.Status, sub.StartedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}
