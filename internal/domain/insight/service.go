package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// Service handles insight operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new insight service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines insight creation inputs.
type CreateRequest struct {
	ID           string
	ProjectID    string
	ExperimentID *string
	Title        string
	Type         *string
	Hypothesis   string
	Observation  string
	InsightText  string
	NextSteps    string
	Assignees    []string
}

// Create records an insight and logs insight_added.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Insight, error) {
	if strings.TrimSpace(req.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.InsightText) == "" {
		return nil, fmt.Errorf("%w: insight_text is required", ErrInvalidInput)
	}

	ok, err := s.repo.ProjectExists(ctx, tenantID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("checking project: %w", err)
	}
	if !ok {
		return nil, ErrProjectNotFound
	}
	if in, err := s.replayed(ctx, tenantID, req); err != nil || in != nil {
		return in, err
	}

	if err := s.checkExperiment(ctx, tenantID, req.ProjectID, req.ExperimentID); err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	assignees := req.Assignees
	if assignees == nil {
		assignees = []string{}
	}

	now := time.Now().UTC()
	in := &Insight{
		ID:           id,
		TenantID:     tenantID,
		ProjectID:    req.ProjectID,
		ExperimentID: req.ExperimentID,
		Title:        strings.TrimSpace(req.Title),
		Type:         req.Type,
		Hypothesis:   req.Hypothesis,
		Observation:  req.Observation,
		InsightText:  req.InsightText,
		NextSteps:    req.NextSteps,
		Assignees:    assignees,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	evt := timeline.NewEvent(in.ProjectID, timeline.TypeInsightAdded, "Insight added", in.Title, in.ID)
	if err := s.repo.Create(ctx, tenantID, in, evt); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, id)
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating insight: %w", err)
	}
	return in, nil
}

// replayed returns the stored insight when a create is repeated with an id
// the tenant already holds in the same project.
func (s *Service) replayed(ctx context.Context, tenantID string, req CreateRequest) (*Insight, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, nil
	}
	in, err := s.repo.Get(ctx, tenantID, req.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("checking insight id: %w", err)
	case in.ProjectID != req.ProjectID:
		return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, req.ID)
	}
	return in, nil
}

// Get fetches an insight by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Insight, error) {
	in, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, fmt.Errorf("getting insight: %w", err)
	}
	return in, nil
}

// List returns insights of a project, oldest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Insight, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	list, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	return list, nil
}

// UpdateRequest carries a partial insight update.
type UpdateRequest struct {
	Title       *string
	Type        *string
	Hypothesis  *string
	Observation *string
	InsightText *string
	NextSteps   *string
	// ExperimentID relinks the insight; an empty string unlinks it.
	ExperimentID *string
	Assignees    []string
	Version      int64
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Insight, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != current.Version {
		return nil, ErrConflict
	}

	updated := *current
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.InsightText != nil {
		if strings.TrimSpace(*req.InsightText) == "" {
			return nil, fmt.Errorf("%w: insight_text is required", ErrInvalidInput)
		}
		updated.InsightText = *req.InsightText
	}
	if req.Type != nil {
		updated.Type = req.Type
	}
	if req.Hypothesis != nil {
		updated.Hypothesis = *req.Hypothesis
	}
	if req.Observation != nil {
		updated.Observation = *req.Observation
	}
	if req.NextSteps != nil {
		updated.NextSteps = *req.NextSteps
	}
	switch {
	case req.ExperimentID == nil:
	case *req.ExperimentID == "":
		updated.ExperimentID = nil
	default:
		if err := s.checkExperiment(ctx, tenantID, current.ProjectID, req.ExperimentID); err != nil {
			return nil, err
		}
		updated.ExperimentID = req.ExperimentID
	}
	if req.Assignees != nil {
		updated.Assignees = req.Assignees
	}
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, tenantID, &updated, current.Version); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInsightNotFound
		}
		return nil, fmt.Errorf("updating insight: %w", err)
	}
	return &updated, nil
}

// Delete removes an insight.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInsightNotFound
		}
		return fmt.Errorf("deleting insight: %w", err)
	}
	return nil
}

func (s *Service) checkExperiment(ctx context.Context, tenantID, projectID string, experimentID *string) error {
	if experimentID == nil {
		return nil
	}
	owner, err := s.repo.ExperimentProject(ctx, tenantID, *experimentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExperimentMismatch
	}
	if err != nil {
		return fmt.Errorf("checking experiment: %w", err)
	}
	if owner != projectID {
		return ErrExperimentMismatch
	}
	return nil
}
