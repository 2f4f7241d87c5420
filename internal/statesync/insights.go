package statesync

import (
	"context"

	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// InsightContainer holds insights per project and emits insight_added.
type InsightContainer struct {
	*Container[insight.Insight]
}

// NewInsightContainer creates the insight container.
func NewInsightContainer(opts Options[insight.Insight], emitter *timeline.Emitter) *InsightContainer {
	opts.OnCreate = func(ctx context.Context, projectID string, in insight.Insight) {
		if emitter != nil {
			emitter.Emit(ctx, projectID, timeline.TypeInsightAdded, "Insight added", in.Title, in.ID)
		}
	}
	return &InsightContainer{Container: NewContainer(opts)}
}

// ForExperiment returns the insights derived from one experiment.
func (c *InsightContainer) ForExperiment(projectID, experimentID string) []insight.Insight {
	var out []insight.Insight
	for _, in := range c.List(projectID) {
		if in.ExperimentID != nil && *in.ExperimentID == experimentID {
			out = append(out, in)
		}
	}
	return out
}
