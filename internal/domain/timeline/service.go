package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultListLimit = 100

// Service handles timeline operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new timeline service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an event, filling in its id and timestamp when missing.
func (s *Service) Log(ctx context.Context, tenantID string, evt *Event) error {
	if evt == nil || strings.TrimSpace(evt.ProjectID) == "" || evt.Type == "" {
		return ErrInvalidInput
	}
	if evt.ID == "" {
		evt.ID = uuid.Must(uuid.NewV7()).String()
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	evt.TenantID = tenantID
	if err := s.repo.Log(ctx, tenantID, evt); err != nil {
		return fmt.Errorf("logging timeline event: %w", err)
	}
	return nil
}

// List returns events newest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	events, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing timeline: %w", err)
	}
	return events, nil
}
