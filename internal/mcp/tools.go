package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

const (
	defaultTimelineLimit = 20
	maxTimelineLimit     = 200
)

func registerTools(server *sdkmcp.Server, svc Services) {
	t := &tools{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the caller's projects with experiment and insight counts",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project, optionally choosing its canvas template",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_experiments",
		Description: "List a project's experiments, optionally one kanban column",
	}, t.listExperiments)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_experiment",
		Description: "Create an experiment, or update it when id names an existing one",
	}, t.saveExperiment)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_experiment_status",
		Description: "Move an experiment to backlog, running or completed and record it on the timeline",
	}, t.updateExperimentStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_insight",
		Description: "Record what was learned, optionally linked to an experiment",
	}, t.recordInsight)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline",
		Description: "Read a project's history, newest first",
	}, t.getTimeline)
}

type tools struct {
	svc Services
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := t.svc.Projects.List(ctx, getTenantID(ctx), project.ListOptions{IncludeArchived: in.IncludeArchived})
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(projects)
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	tenantID := getTenantID(ctx)
	req := project.CreateRequest{
		ID:          in.ID,
		OwnerID:     tenantID,
		Name:        in.Name,
		Description: in.Description,
	}
	if in.ModelType != "" {
		mt, err := canvas.ParseType(in.ModelType)
		if err != nil {
			return nil, nil, invalidInput("%v", err)
		}
		req.ModelType = &mt
	}
	proj, err := t.svc.Projects.Create(ctx, tenantID, req)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(proj)
}

func (t *tools) listExperiments(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListExperimentsParams) (*sdkmcp.CallToolResult, any, error) {
	opts := experiment.ListOptions{ProjectID: in.ProjectID}
	if in.Status != "" {
		status, err := parseStatus(in.Status)
		if err != nil {
			return nil, nil, err
		}
		opts.Status = &status
	}
	exps, err := t.svc.Experiments.List(ctx, getTenantID(ctx), opts)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(exps)
}

func (t *tools) saveExperiment(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveExperimentParams) (*sdkmcp.CallToolResult, any, error) {
	tenantID := getTenantID(ctx)
	dueDate, err := parseDate(in.DueDate)
	if err != nil {
		return nil, nil, err
	}
	if in.Priority != "" && !experiment.Priority(in.Priority).Valid() {
		return nil, nil, invalidInput("priority must be low, medium or high")
	}

	if in.ID != "" {
		existing, err := t.svc.Experiments.Get(ctx, tenantID, in.ID)
		switch {
		case err == nil:
			if existing.ProjectID != in.ProjectID {
				return nil, nil, invalidInput("experiment %s belongs to another project", in.ID)
			}
			return t.updateExperiment(ctx, tenantID, in, dueDate)
		case !errors.Is(err, experiment.ErrExperimentNotFound):
			return nil, nil, mapError(err)
		}
	}

	req := experiment.CreateRequest{
		ID:              in.ID,
		ProjectID:       in.ProjectID,
		Title:           in.Title,
		Hypothesis:      in.Hypothesis,
		TestDescription: in.TestDescription,
		SuccessCriteria: in.SuccessCriteria,
		Status:          experiment.Status(in.Status),
		Priority:        experiment.Priority(in.Priority),
		DueDate:         dueDate,
		Assignees:       in.Assignees,
	}
	if in.Results != "" {
		req.Results = &in.Results
	}
	exp, err := t.svc.Experiments.Create(ctx, tenantID, req)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(exp)
}

func (t *tools) updateExperiment(ctx context.Context, tenantID string, in SaveExperimentParams, dueDate *time.Time) (*sdkmcp.CallToolResult, any, error) {
	req := experiment.UpdateRequest{
		Title:     &in.Title,
		DueDate:   dueDate,
		Assignees: in.Assignees,
		Version:   in.Version,
	}
	if in.Hypothesis != "" {
		req.Hypothesis = &in.Hypothesis
	}
	if in.TestDescription != "" {
		req.TestDescription = &in.TestDescription
	}
	if in.SuccessCriteria != "" {
		req.SuccessCriteria = &in.SuccessCriteria
	}
	if in.Results != "" {
		req.Results = &in.Results
	}
	if in.Priority != "" {
		p := experiment.Priority(in.Priority)
		req.Priority = &p
	}
	exp, err := t.svc.Experiments.Update(ctx, tenantID, in.ID, req)
	if err != nil {
		return nil, nil, mapError(err)
	}
	if in.Status != "" && in.Status != string(exp.Status) {
		status, err := parseStatus(in.Status)
		if err != nil {
			return nil, nil, err
		}
		if exp, err = t.svc.Experiments.UpdateStatus(ctx, tenantID, in.ID, status, exp.Version); err != nil {
			return nil, nil, mapError(err)
		}
	}
	return jsonResult(exp)
}

func (t *tools) updateExperimentStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateExperimentStatusParams) (*sdkmcp.CallToolResult, any, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, nil, err
	}
	exp, err := t.svc.Experiments.UpdateStatus(ctx, getTenantID(ctx), in.ID, status, 0)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(exp)
}

func (t *tools) recordInsight(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordInsightParams) (*sdkmcp.CallToolResult, any, error) {
	req := insight.CreateRequest{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Hypothesis:  in.Hypothesis,
		Observation: in.Observation,
		InsightText: in.InsightText,
		NextSteps:   in.NextSteps,
		Assignees:   in.Assignees,
	}
	if in.ExperimentID != "" {
		req.ExperimentID = &in.ExperimentID
	}
	if in.Type != "" {
		req.Type = &in.Type
	}
	created, err := t.svc.Insights.Create(ctx, getTenantID(ctx), req)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(created)
}

func (t *tools) getTimeline(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetTimelineParams) (*sdkmcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	limit = min(limit, maxTimelineLimit)

	opts := timeline.ListOptions{ProjectID: in.ProjectID, Limit: limit}
	if in.Type != "" {
		typ := timeline.EventType(in.Type)
		opts.Type = &typ
	}
	events, err := t.svc.Timeline.List(ctx, getTenantID(ctx), opts)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return jsonResult(events)
}

func parseStatus(raw string) (experiment.Status, error) {
	status := experiment.Status(raw)
	if !status.Valid() {
		return "", invalidInput("status must be backlog, running or completed")
	}
	return status, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, invalidInput("due_date %q is not YYYY-MM-DD or RFC 3339", raw)
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
