package team

import "context"

// Repository provides persistence for teams and their members.
type Repository interface {
	// Create inserts the team together with its initial members.
	Create(ctx context.Context, tenantID string, t *Team) error
	Get(ctx context.Context, tenantID, id string) (*Team, error)
	List(ctx context.Context, tenantID string) ([]Team, error)
	Rename(ctx context.Context, tenantID, id, name string) error
	Delete(ctx context.Context, tenantID, id string) error

	AddMember(ctx context.Context, tenantID string, m *Member) error
	GetMember(ctx context.Context, tenantID, id string) (*Member, error)
	UpdateMemberRole(ctx context.Context, tenantID, id string, role Role) error
	RemoveMember(ctx context.Context, tenantID, id string) error
}
