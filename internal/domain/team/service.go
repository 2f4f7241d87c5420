package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/repository"
)

// Service handles team operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// MemberInput describes a person joining a team.
type MemberInput struct {
	Name      string
	Email     string
	AvatarURL string
}

// CreateRequest defines team creation inputs. The creator becomes the owner.
type CreateRequest struct {
	ID      string
	Name    string
	Creator MemberInput
}

// Create creates a team with its creator as owner.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateMember(req.Creator); err != nil {
		return nil, err
	}

	if t, err := s.replayed(ctx, tenantID, req); err != nil || t != nil {
		return t, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC()
	t := &Team{
		ID:        id,
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
		Members: []Member{{
			ID:        uuid.Must(uuid.NewV7()).String(),
			TeamID:    id,
			Name:      req.Creator.Name,
			Email:     normalizeEmail(req.Creator.Email),
			AvatarURL: req.Creator.AvatarURL,
			Role:      RoleOwner,
			CreatedAt: now,
		}},
	}

	if err := s.repo.Create(ctx, tenantID, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, id)
		}
		return nil, fmt.Errorf("creating team: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("team created", "tenant_id", tenantID, "team_id", t.ID)
	}
	return t, nil
}

// replayed returns the stored team when a create is repeated with an id the
// tenant already holds.
func (s *Service) replayed(ctx context.Context, tenantID string, req CreateRequest) (*Team, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, nil
	}
	t, err := s.repo.Get(ctx, tenantID, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking team id: %w", err)
	}
	return t, nil
}

// Get fetches a team with its members.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Team, error) {
	t, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return t, nil
}

// List returns the tenant's teams with members.
func (s *Service) List(ctx context.Context, tenantID string) ([]Team, error) {
	teams, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}

// Rename changes the team's name.
func (s *Service) Rename(ctx context.Context, tenantID, id, name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.repo.Rename(ctx, tenantID, id, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("renaming team: %w", err)
	}
	return s.Get(ctx, tenantID, id)
}

// Delete removes a team; its projects become unassigned.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

// AddMemberRequest defines a new member.
type AddMemberRequest struct {
	TeamID string
	Member MemberInput
	Role   Role
}

// AddMember adds someone to a team. The owner role can't be granted this way.
func (s *Service) AddMember(ctx context.Context, tenantID string, req AddMemberRequest) (*Member, error) {
	if err := validateMember(req.Member); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() || role == RoleOwner {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if _, err := s.Get(ctx, tenantID, req.TeamID); err != nil {
		return nil, err
	}

	m := &Member{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TeamID:    req.TeamID,
		Name:      req.Member.Name,
		Email:     normalizeEmail(req.Member.Email),
		AvatarURL: req.Member.AvatarURL,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, tenantID, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateMember
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}
	return m, nil
}

// UpdateMemberRole changes a member's role. The owner keeps their role and
// nobody else can become owner.
func (s *Service) UpdateMemberRole(ctx context.Context, tenantID, memberID string, role Role) (*Member, error) {
	if !role.Valid() || role == RoleOwner {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	m, err := s.getMember(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	if m.Role == RoleOwner {
		return nil, ErrOwnerRemoval
	}
	if err := s.repo.UpdateMemberRole(ctx, tenantID, memberID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("updating member role: %w", err)
	}
	m.Role = role
	return m, nil
}

// RemoveMember removes a non-owner member.
func (s *Service) RemoveMember(ctx context.Context, tenantID, memberID string) error {
	m, err := s.getMember(ctx, tenantID, memberID)
	if err != nil {
		return err
	}
	if m.Role == RoleOwner {
		return ErrOwnerRemoval
	}
	if err := s.repo.RemoveMember(ctx, tenantID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing member: %w", err)
	}
	return nil
}

func (s *Service) getMember(ctx context.Context, tenantID, id string) (*Member, error) {
	m, err := s.repo.GetMember(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

func validateMember(in MemberInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: member email is invalid", ErrInvalidInput)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
