package timeline

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a timeline milestone.
type EventType string

const (
	TypeProjectCreated      EventType = "project_created"
	TypeExperimentCreated   EventType = "experiment_created"
	TypeExperimentBacklog   EventType = "experiment_backlog"
	TypeExperimentRunning   EventType = "experiment_running"
	TypeExperimentCompleted EventType = "experiment_completed"
	TypeInsightAdded        EventType = "insight_added"
	TypeModelChanged        EventType = "model_changed"
	TypeCanvasUpdated       EventType = "canvas_updated"
)

// ExperimentStatusEvent returns the event recorded when an experiment enters status.
func ExperimentStatusEvent(status string) EventType {
	return EventType("experiment_" + status)
}

// Event is an append-only milestone in a project's history.
type Event struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id,omitempty"`
	ProjectID       string    `json:"project_id"`
	Type            EventType `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	RelatedEntityID *string   `json:"related_entity_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Key returns the event id.
func (e Event) Key() string { return e.ID }

// NewEvent builds an event stamped with a fresh time-ordered id.
func NewEvent(projectID string, typ EventType, title, description, relatedID string) *Event {
	evt := &Event{
		ID:          uuid.Must(uuid.NewV7()).String(),
		ProjectID:   projectID,
		Type:        typ,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if relatedID != "" {
		evt.RelatedEntityID = &relatedID
	}
	return evt
}
