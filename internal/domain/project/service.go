package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	limits Limiter
	logger *slog.Logger
}

// NewService creates a new project service. A nil limiter disables capacity checks.
func NewService(repo Repository, limits Limiter, logger *slog.Logger) *Service {
	return &Service{repo: repo, limits: limits, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	TeamID      *string
	ModelType   *canvas.Type
}

// Create creates a new project and records project_created.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if req.ModelType != nil {
		if _, err := canvas.ParseType(string(*req.ModelType)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if proj, err := s.replayed(ctx, tenantID, req); err != nil || proj != nil {
		return proj, err
	}

	if s.limits != nil {
		count, err := s.repo.Count(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("counting projects: %w", err)
		}
		if err := s.limits.Check(ctx, tenantID, subscription.ResourceProjects, count); err != nil {
			return nil, err
		}
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}

	now := time.Now().UTC()
	proj := &Project{
		ID:          id,
		TenantID:    tenantID,
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		TeamID:      req.TeamID,
		ModelType:   req.ModelType,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	evt := timeline.NewEvent(proj.ID, timeline.TypeProjectCreated, "Project created", proj.Name, proj.ID)
	if err := s.repo.Create(ctx, tenantID, proj, evt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, id)
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("project created", "tenant_id", tenantID, "project_id", proj.ID)
	}
	return proj, nil
}

// replayed returns the stored project when a create is repeated with an id
// the tenant already holds.
func (s *Service) replayed(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, nil
	}
	proj, err := s.repo.Get(ctx, tenantID, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking project id: %w", err)
	}
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the tenant's projects, newest first. Archived projects are
// skipped unless requested.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// UpdateRequest carries a partial project update.
type UpdateRequest struct {
	Name        *string
	Description *string
	Archived    *bool
	// Version, when non-zero, must match the stored version.
	Version int64
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Project, error) {
	return s.apply(ctx, tenantID, id, req.Version, func(p *Project) (*timeline.Event, error) {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return nil, ErrInvalidInput
			}
			p.Name = name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Archived != nil {
			p.Archived = *req.Archived
		}
		return nil, nil
	})
}

// AssignTeam sets or, with a nil teamID, clears the project's team.
func (s *Service) AssignTeam(ctx context.Context, tenantID, id string, teamID *string) (*Project, error) {
	if teamID != nil {
		ok, err := s.repo.TeamExists(ctx, tenantID, *teamID)
		if err != nil {
			return nil, fmt.Errorf("checking team: %w", err)
		}
		if !ok {
			return nil, ErrTeamNotFound
		}
	}
	return s.apply(ctx, tenantID, id, 0, func(p *Project) (*timeline.Event, error) {
		p.TeamID = teamID
		return nil, nil
	})
}

// SetModelType picks the canvas template and records model_changed when it differs.
func (s *Service) SetModelType(ctx context.Context, tenantID, id string, model canvas.Type) (*Project, error) {
	if _, err := canvas.ParseType(string(model)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, tenantID, id, 0, func(p *Project) (*timeline.Event, error) {
		if p.ModelType != nil && *p.ModelType == model {
			return nil, nil
		}
		from := "none"
		if p.ModelType != nil {
			from = string(*p.ModelType)
		}
		p.ModelType = &model
		return timeline.NewEvent(p.ID, timeline.TypeModelChanged, "Business model changed",
			fmt.Sprintf("%s -> %s", from, model), p.ID), nil
	})
}

// Delete removes a project with its experiments, insights and canvases.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, tenantID, id string, version int64, fn func(*Project) (*timeline.Event, error)) (*Project, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if version != 0 && version != current.Version {
		return nil, ErrConflict
	}

	updated := *current
	evt, err := fn(&updated)
	if err != nil {
		return nil, err
	}
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, tenantID, &updated, current.Version, evt); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return &updated, nil
}
