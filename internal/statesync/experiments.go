package statesync

import (
	"context"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// StatusStore persists experiment status changes.
type StatusStore interface {
	UpdateStatus(ctx context.Context, e experiment.Experiment) (experiment.Experiment, error)
}

// ExperimentContainer holds experiments per project and emits timeline
// events for creations and status changes.
type ExperimentContainer struct {
	*Container[experiment.Experiment]
	status  StatusStore
	emitter *timeline.Emitter
}

// ExperimentStore is the durable side of an ExperimentContainer.
type ExperimentStore interface {
	Store[experiment.Experiment]
	StatusStore
}

// NewExperimentContainer creates the experiment container. store may be nil.
func NewExperimentContainer(opts Options[experiment.Experiment], store ExperimentStore, emitter *timeline.Emitter) *ExperimentContainer {
	ec := &ExperimentContainer{emitter: emitter}
	if store != nil {
		opts.Store = store
		ec.status = store
	}
	opts.OnCreate = func(ctx context.Context, projectID string, e experiment.Experiment) {
		if emitter != nil {
			emitter.Emit(ctx, projectID, timeline.TypeExperimentCreated, "Experiment created", e.Title, e.ID)
		}
	}
	ec.Container = NewContainer(opts)
	return ec
}

// UpdateStatus moves an experiment to status. Any status may follow any
// other. Setting the current status again succeeds without an event.
func (c *ExperimentContainer) UpdateStatus(ctx context.Context, projectID, id string, status experiment.Status) bool {
	if !status.Valid() {
		c.setError(fmt.Errorf("%w: unknown status %q", experiment.ErrInvalidStatus, status))
		return false
	}

	current, ok := c.Get(projectID, id)
	if !ok {
		c.setError(experiment.ErrExperimentNotFound)
		return false
	}
	if current.Status == status {
		return true
	}

	updated := current
	updated.Status = status
	c.replaceEntity(projectID, updated)

	stored := updated
	if c.status != nil {
		var err error
		stored, err = c.status.UpdateStatus(ctx, updated)
		if err != nil {
			c.replaceEntity(projectID, current)
			c.setError(err)
			c.logger.Warn("status change failed; reverted",
				"project_id", projectID, "experiment_id", id, "status", status, "error", err)
			return false
		}
	}

	c.replaceEntity(projectID, stored)
	c.mirror(ctx, projectID)
	if c.emitter != nil {
		c.emitter.Emit(ctx, projectID, timeline.ExperimentStatusEvent(string(status)),
			experiment.StatusEventTitle(status), stored.Title, stored.ID)
	}
	return true
}

// ByStatus groups a project's experiments into board columns.
func (c *ExperimentContainer) ByStatus(projectID string) map[experiment.Status][]experiment.Experiment {
	board := make(map[experiment.Status][]experiment.Experiment, len(experiment.Statuses()))
	for _, s := range experiment.Statuses() {
		board[s] = []experiment.Experiment{}
	}
	for _, e := range c.List(projectID) {
		board[e.Status] = append(board[e.Status], e)
	}
	return board
}
