package subscription

import (
	"slices"
	"time"
)

// Well-known tier ids seeded by the schema.
const (
	TierFree         = "free"
	TierProfessional = "professional"
	TierEnterprise   = "enterprise"
)

// Feature flags carried by tiers.
const (
	FeatureCanvas            = "canvas"
	FeatureTeams             = "teams"
	FeatureInsightsExport    = "insights_export"
	FeatureAdvancedAnalytics = "advanced_analytics"
)

// Unlimited marks a limit with no ceiling.
const Unlimited = -1

// Resource is a quantity governed by a tier.
type Resource string

const (
	ResourceProjects    Resource = "projects"
	ResourceExperiments Resource = "experiments"
)

// Tier is a plan with capacity limits and features.
type Tier struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MaxProjects    int      `json:"max_projects"`
	MaxExperiments int      `json:"max_experiments"`
	Features       []string `json:"features"`
	PriceCents     int      `json:"price_cents"`
}

// Limit returns the ceiling for r, or Unlimited.
func (t Tier) Limit(r Resource) int {
	switch r {
	case ResourceProjects:
		return t.MaxProjects
	case ResourceExperiments:
		return t.MaxExperiments
	}
	return Unlimited
}

// HasFeature reports whether the tier unlocks feature.
func (t Tier) HasFeature(feature string) bool {
	return slices.Contains(t.Features, feature)
}

// Status is the lifecycle state of a user subscription.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription binds a tenant to a tier.
type Subscription struct {
	TenantID  string    `json:"tenant_id"`
	TierID    string    `json:"tier_id"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// Current pairs a subscription with its resolved tier.
type Current struct {
	Subscription Subscription `json:"subscription"`
	Tier         Tier         `json:"tier"`
}

// FreeTier is used when a tenant has never subscribed and the store is unavailable.
func FreeTier() Tier {
	return Tier{
		ID:             TierFree,
		Name:           "Free",
		MaxProjects:    1,
		MaxExperiments: 3,
		Features:       []string{FeatureCanvas},
	}
}
