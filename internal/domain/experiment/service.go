package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// Service handles experiment operations.
type Service struct {
	repo   Repository
	limits Limiter
	logger *slog.Logger
}

// NewService creates a new experiment service. A nil limiter disables capacity checks.
func NewService(repo Repository, limits Limiter, logger *slog.Logger) *Service {
	return &Service{repo: repo, limits: limits, logger: logger}
}

// CreateRequest defines experiment creation inputs.
type CreateRequest struct {
	ID              string
	ProjectID       string
	Title           string
	Hypothesis      string
	TestDescription string
	SuccessCriteria string
	Status          Status
	Priority        Priority
	Results         *string
	DueDate         *time.Time
	Assignees       []string
}

// Create creates an experiment and records experiment_created.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Experiment, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}

	if exp, err := s.replayed(ctx, tenantID, req); err != nil || exp != nil {
		return exp, err
	}

	if s.limits != nil {
		count, err := s.repo.Count(ctx, tenantID, req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("counting experiments: %w", err)
		}
		if err := s.limits.Check(ctx, tenantID, subscription.ResourceExperiments, count); err != nil {
			return nil, err
		}
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	status := req.Status
	if status == "" {
		status = StatusBacklog
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	assignees := req.Assignees
	if assignees == nil {
		assignees = []string{}
	}

	now := time.Now().UTC()
	exp := &Experiment{
		ID:              id,
		TenantID:        tenantID,
		ProjectID:       req.ProjectID,
		Title:           strings.TrimSpace(req.Title),
		Hypothesis:      req.Hypothesis,
		TestDescription: req.TestDescription,
		SuccessCriteria: req.SuccessCriteria,
		Status:          status,
		Priority:        priority,
		Results:         req.Results,
		DueDate:         req.DueDate,
		Assignees:       assignees,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	evt := timeline.NewEvent(exp.ProjectID, timeline.TypeExperimentCreated, "Experiment created", exp.Title, exp.ID)
	if err := s.repo.Create(ctx, tenantID, exp, evt); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, id)
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating experiment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("experiment created", "tenant_id", tenantID, "experiment_id", exp.ID, "project_id", exp.ProjectID)
	}
	return exp, nil
}

// replayed returns the stored experiment when a create is repeated with an
// id the tenant already holds in the same project.
func (s *Service) replayed(ctx context.Context, tenantID string, req CreateRequest) (*Experiment, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, nil
	}
	exp, err := s.repo.Get(ctx, tenantID, req.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("checking experiment id: %w", err)
	case exp.ProjectID != req.ProjectID:
		return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, req.ID)
	}
	return exp, nil
}

// Get fetches an experiment by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Experiment, error) {
	exp, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExperimentNotFound
		}
		return nil, fmt.Errorf("getting experiment: %w", err)
	}
	return exp, nil
}

// List returns experiments of a project, oldest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Experiment, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *opts.Status)
	}
	exps, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing experiments: %w", err)
	}
	return exps, nil
}

// UpdateRequest carries a partial experiment update. Status changes go
// through UpdateStatus so they are recorded on the timeline.
type UpdateRequest struct {
	Title           *string
	Hypothesis      *string
	TestDescription *string
	SuccessCriteria *string
	Priority        *Priority
	Results         *string
	DueDate         *time.Time
	ClearDueDate    bool
	Assignees       []string
	Version         int64
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Experiment, error) {
	return s.apply(ctx, tenantID, id, req.Version, func(e *Experiment) (*timeline.Event, error) {
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
			}
			e.Title = title
		}
		if req.Hypothesis != nil {
			e.Hypothesis = *req.Hypothesis
		}
		if req.TestDescription != nil {
			e.TestDescription = *req.TestDescription
		}
		if req.SuccessCriteria != nil {
			e.SuccessCriteria = *req.SuccessCriteria
		}
		if req.Priority != nil {
			if !req.Priority.Valid() {
				return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, *req.Priority)
			}
			e.Priority = *req.Priority
		}
		if req.Results != nil {
			e.Results = req.Results
		}
		if req.DueDate != nil {
			e.DueDate = req.DueDate
		}
		if req.ClearDueDate {
			e.DueDate = nil
		}
		if req.Assignees != nil {
			e.Assignees = req.Assignees
		}
		return nil, nil
	})
}

// UpdateStatus moves the experiment to status and records experiment_<status>.
// Setting the current status again is a no-op. A non-zero version must match
// the stored one.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id string, status Status, version int64) (*Experiment, error) {
	return s.apply(ctx, tenantID, id, version, func(e *Experiment) (*timeline.Event, error) {
		if err := ValidateTransition(e.Status, status); err != nil {
			return nil, err
		}
		if e.Status == status {
			return nil, errUnchanged
		}
		e.Status = status
		return timeline.NewEvent(e.ProjectID, timeline.ExperimentStatusEvent(string(status)),
			StatusEventTitle(status), e.Title, e.ID), nil
	})
}

// StatusEventTitle is the timeline title for entering status.
func StatusEventTitle(status Status) string {
	switch status {
	case StatusRunning:
		return "Experiment started"
	case StatusCompleted:
		return "Experiment completed"
	default:
		return "Experiment moved to backlog"
	}
}

// Delete removes an experiment.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExperimentNotFound
		}
		return fmt.Errorf("deleting experiment: %w", err)
	}
	return nil
}

var errUnchanged = errors.New("unchanged")

func (s *Service) apply(ctx context.Context, tenantID, id string, version int64, fn func(*Experiment) (*timeline.Event, error)) (*Experiment, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if version != 0 && version != current.Version {
		return nil, ErrConflict
	}

	updated := *current
	evt, err := fn(&updated)
	if errors.Is(err, errUnchanged) {
		return current, nil
	}
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
			return nil, ErrExperimentNotFound
		}
		return nil, fmt.Errorf("updating experiment: %w", err)
	}
	return &updated, nil
}

func (s *Service) requireProject(ctx context.Context, tenantID, projectID string) error {
	ok, err := s.repo.ProjectExists(ctx, tenantID, projectID)
	if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if !ok {
		return ErrProjectNotFound
	}
	return nil
}
