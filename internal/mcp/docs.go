package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `modlab stores business-model experiments as Projects → Experiments → Insights.

Core concepts:
- Project: a venture being modeled. It may carry a canvas template (business_model, product, social_business).
- Experiment: a testable hypothesis on a kanban board with columns backlog, running and completed. Any column may move to any other.
- Insight: what was learned, optionally linked to the experiment that produced it.
- Timeline: an append-only history of milestones (project_created, experiment_running, insight_added, ...).

Workflow:
1) Orient with list_projects; create_project when none fits.
2) Read the board with list_experiments.
3) save_experiment to add or edit a card; update_experiment_status to move it.
4) record_insight when an experiment yields a result.
5) get_timeline to summarize what happened.

Subscription tiers cap projects and experiments per project. A LIMIT_REACHED error means the user must upgrade; do not retry.

Read modlab://docs/guide for field-level guidance.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "modlab://docs/guide",
		Name:        "guide",
		Title:       "modlab agent guide",
		Description: "How to write experiments and insights that stay useful on the board.",
		Content: `# modlab: Agent Guide

## Writing an experiment

- **title**: one line naming the bet, e.g. "Freelancers pay for invoicing".
- **hypothesis**: "We believe <segment> will <behavior> because <reason>."
- **test_description**: the cheapest test that could disprove it.
- **success_criteria**: a measurable threshold decided before the test runs.
- **priority**: low, medium or high. Default medium.
- **due_date**: YYYY-MM-DD.

New experiments land in backlog unless status says otherwise. Pass the
experiment ` + "`id`" + ` back to ` + "`save_experiment`" + ` to edit it; include ` + "`version`" + `
from the last read to avoid overwriting someone else's change.

## Moving cards

` + "`update_experiment_status`" + ` records experiment_backlog, experiment_running or
experiment_completed on the timeline. Record ` + "`results`" + ` with save_experiment
before moving a card to completed.

## Recording insights

- **observation**: what happened, stated as fact.
- **insight_text**: what it means for the business model.
- **next_steps**: the follow-up experiment or canvas change.

Link ` + "`experiment_id`" + ` when the insight came from an experiment; it must belong to
the same project.

## Limits

| tier | projects | experiments per project |
|---|---|---|
| free | 1 | 3 |
| professional | 10 | 10 |
| enterprise | unlimited | unlimited |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
