package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// Service edits canvases item by item.
type Service struct {
	repo   Repository
	logger *slog.Logger

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// NewService creates a new canvas service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the canvas, or an empty one if nothing has been saved yet.
func (s *Service) Get(ctx context.Context, tenantID, projectID string, t Type) (*Canvas, error) {
	if _, err := ParseType(string(t)); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	return s.load(ctx, tenantID, projectID, t)
}

// AddItem appends a new assumption to section.
func (s *Service) AddItem(ctx context.Context, tenantID, projectID string, t Type, section Section, text string) (*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	if _, err := ParseType(string(t)); err != nil {
		return nil, err
	}
	if !HasSection(t, section) {
		return nil, fmt.Errorf("%w: %s in %s", ErrSectionMismatch, section, t)
	}

	item := Item{ID: uuid.Must(uuid.NewV7()).String(), Text: text, Status: StatusAssumption}
	err := s.mutate(ctx, tenantID, projectID, t, func(c *Canvas) (*timeline.Event, error) {
		c.Sections[section] = append(c.Sections[section], item)
		return timeline.NewEvent(projectID, timeline.TypeCanvasUpdated,
			fmt.Sprintf("Added %s item", section), text, item.ID), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemText replaces an item's text.
func (s *Service) UpdateItemText(ctx context.Context, tenantID, projectID string, t Type, itemID, text string) (*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	var updated Item
	err := s.mutate(ctx, tenantID, projectID, t, func(c *Canvas) (*timeline.Event, error) {
		section, idx, ok := c.find(itemID)
		if !ok {
			return nil, ErrItemNotFound
		}
		c.Sections[section][idx].Text = text
		updated = c.Sections[section][idx]
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveItem deletes an item from whichever section holds it.
func (s *Service) RemoveItem(ctx context.Context, tenantID, projectID string, t Type, itemID string) error {
	return s.mutate(ctx, tenantID, projectID, t, func(c *Canvas) (*timeline.Event, error) {
		section, idx, ok := c.find(itemID)
		if !ok {
			return nil, ErrItemNotFound
		}
		items := c.Sections[section]
		c.Sections[section] = append(items[:idx:idx], items[idx+1:]...)
		return nil, nil
	})
}

// CycleItem advances an item's status; reaching validated is recorded on the timeline.
func (s *Service) CycleItem(ctx context.Context, tenantID, projectID string, t Type, itemID string) (*Item, error) {
	var updated Item
	err := s.mutate(ctx, tenantID, projectID, t, func(c *Canvas) (*timeline.Event, error) {
		section, idx, ok := c.find(itemID)
		if !ok {
			return nil, ErrItemNotFound
		}
		item := &c.Sections[section][idx]
		item.Status = item.Status.Next()
		updated = *item
		if item.Status != StatusValidated {
			return nil, nil
		}
		return timeline.NewEvent(projectID, timeline.TypeCanvasUpdated,
			fmt.Sprintf("Validated %s item", section), item.Text, item.ID), nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) mutate(ctx context.Context, tenantID, projectID string, t Type, fn func(*Canvas) (*timeline.Event, error)) error {
	if _, err := ParseType(string(t)); err != nil {
		return err
	}
	if err := s.requireProject(ctx, tenantID, projectID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, tenantID, projectID, t)
	if err != nil {
		return err
	}
	evt, err := fn(c)
	if err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, tenantID, c, evt); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("saving canvas: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("canvas saved", "project_id", projectID, "type", t)
	}
	return nil
}

func (s *Service) load(ctx context.Context, tenantID, projectID string, t Type) (*Canvas, error) {
	c, err := s.repo.Get(ctx, tenantID, projectID, t)
	if errors.Is(err, repository.ErrNotFound) {
		return Empty(projectID, t), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting canvas: %w", err)
	}
	c.normalize()
	return c, nil
}

func (s *Service) requireProject(ctx context.Context, tenantID, projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return ErrInvalidInput
	}
	ok, err := s.repo.ProjectExists(ctx, tenantID, projectID)
	if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if !ok {
		return ErrProjectNotFound
	}
	return nil
}
