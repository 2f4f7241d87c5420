package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// SignUp registers a password account.
func (c *Client) SignUp(ctx context.Context, req api.SignUpRequest) (*auth.Identity, error) {
	var out auth.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges credentials for a token and starts using it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.Token, error) {
	var out auth.Token
	req := api.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// SignOut ends the current session.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// Whoami returns the identity behind the token.
func (c *Client) Whoami(ctx context.Context) (*auth.Identity, error) {
	var out auth.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjects returns the caller's active projects.
func (c *Client) ListProjects(ctx context.Context, includeArchived bool) ([]project.Project, error) {
	var q url.Values
	if includeArchived {
		q = url.Values{"archived": {"true"}}
	}
	var out []project.Project
	err := c.do(ctx, http.MethodGet, "/rest/v1/projects", q, nil, &out)
	return out, err
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var out project.Project
	if err := c.do(ctx, http.MethodGet, "/rest/v1/projects/"+escape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req api.CreateProjectRequest) (*project.Project, error) {
	var out project.Project
	if err := c.do(ctx, http.MethodPost, "/rest/v1/projects", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject patches a project.
func (c *Client) UpdateProject(ctx context.Context, id string, req api.UpdateProjectRequest) (*project.Project, error) {
	var out project.Project
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/projects/"+escape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignTeam sets or clears a project's team.
func (c *Client) AssignTeam(ctx context.Context, projectID string, teamID *string) (*project.Project, error) {
	var out project.Project
	req := api.AssignTeamRequest{TeamID: teamID}
	if err := c.do(ctx, http.MethodPut, "/rest/v1/projects/"+escape(projectID)+"/team", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetModelType selects a project's canvas template.
func (c *Client) SetModelType(ctx context.Context, projectID string, modelType canvas.Type) (*project.Project, error) {
	req := api.SetModelRequest{ModelType: string(modelType)}
	var out project.Project
	if err := c.do(ctx, http.MethodPut, "/rest/v1/projects/"+escape(projectID)+"/model", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/projects/"+escape(id), nil, nil, nil)
}

// ListExperiments returns a project's experiments.
func (c *Client) ListExperiments(ctx context.Context, projectID string) ([]experiment.Experiment, error) {
	var out []experiment.Experiment
	q := url.Values{"project_id": {projectID}}
	err := c.do(ctx, http.MethodGet, "/rest/v1/experiments", q, nil, &out)
	return out, err
}

// CreateExperiment creates an experiment.
func (c *Client) CreateExperiment(ctx context.Context, req api.CreateExperimentRequest) (*experiment.Experiment, error) {
	var out experiment.Experiment
	if err := c.do(ctx, http.MethodPost, "/rest/v1/experiments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExperiment patches an experiment.
func (c *Client) UpdateExperiment(ctx context.Context, id string, req api.UpdateExperimentRequest) (*experiment.Experiment, error) {
	var out experiment.Experiment
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/experiments/"+escape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExperimentStatus moves an experiment to status.
func (c *Client) UpdateExperimentStatus(ctx context.Context, id string, status experiment.Status, version int64) (*experiment.Experiment, error) {
	var out experiment.Experiment
	req := api.UpdateStatusRequest{Status: string(status), Version: version}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/experiments/"+escape(id)+"/status", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExperiment removes an experiment.
func (c *Client) DeleteExperiment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/experiments/"+escape(id), nil, nil, nil)
}

// ListInsights returns a project's insights.
func (c *Client) ListInsights(ctx context.Context, projectID string) ([]insight.Insight, error) {
	var out []insight.Insight
	q := url.Values{"project_id": {projectID}}
	err := c.do(ctx, http.MethodGet, "/rest/v1/insights", q, nil, &out)
	return out, err
}

// CreateInsight records an insight.
func (c *Client) CreateInsight(ctx context.Context, req api.CreateInsightRequest) (*insight.Insight, error) {
	var out insight.Insight
	if err := c.do(ctx, http.MethodPost, "/rest/v1/insights", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInsight patches an insight.
func (c *Client) UpdateInsight(ctx context.Context, id string, req api.UpdateInsightRequest) (*insight.Insight, error) {
	var out insight.Insight
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/insights/"+escape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInsight removes an insight.
func (c *Client) DeleteInsight(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/insights/"+escape(id), nil, nil, nil)
}

// ListTeams returns the caller's teams with members.
func (c *Client) ListTeams(ctx context.Context) ([]team.Team, error) {
	var out []team.Team
	err := c.do(ctx, http.MethodGet, "/rest/v1/teams", nil, nil, &out)
	return out, err
}

// CreateTeam creates a team.
func (c *Client) CreateTeam(ctx context.Context, req api.CreateTeamRequest) (*team.Team, error) {
	var out team.Team
	if err := c.do(ctx, http.MethodPost, "/rest/v1/teams", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameTeam renames a team.
func (c *Client) RenameTeam(ctx context.Context, id, name string) (*team.Team, error) {
	var out team.Team
	req := api.RenameTeamRequest{Name: name}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/teams/"+escape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeam removes a team and its members.
func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/teams/"+escape(id), nil, nil, nil)
}

// AddMember adds a member to a team.
func (c *Client) AddMember(ctx context.Context, req api.AddMemberRequest) (*team.Member, error) {
	var out team.Member
	if err := c.do(ctx, http.MethodPost, "/rest/v1/team_members", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMemberRole changes a member's role.
func (c *Client) UpdateMemberRole(ctx context.Context, memberID string, role team.Role) (*team.Member, error) {
	var out team.Member
	req := api.UpdateMemberRoleRequest{Role: string(role)}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/team_members/"+escape(memberID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes a member from a team.
func (c *Client) RemoveMember(ctx context.Context, memberID string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/team_members/"+escape(memberID), nil, nil, nil)
}

// ListTimeline returns a project's events, newest first.
func (c *Client) ListTimeline(ctx context.Context, projectID string, limit int) ([]timeline.Event, error) {
	q := url.Values{"project_id": {projectID}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []timeline.Event
	err := c.do(ctx, http.MethodGet, "/rest/v1/timeline_events", q, nil, &out)
	return out, err
}

func canvasPath(projectID string, t canvas.Type) string {
	return "/rest/v1/canvases/" + escape(projectID) + "/" + escape(string(t))
}

// GetCanvas fetches a project's canvas of type t.
func (c *Client) GetCanvas(ctx context.Context, projectID string, t canvas.Type) (*canvas.Canvas, error) {
	var out canvas.Canvas
	if err := c.do(ctx, http.MethodGet, canvasPath(projectID, t), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCanvasItem adds a note to a section.
func (c *Client) AddCanvasItem(ctx context.Context, projectID string, t canvas.Type, section canvas.Section, text string) (*canvas.Canvas, error) {
	var out canvas.Canvas
	req := api.AddCanvasItemRequest{Section: section.String(), Text: text}
	if err := c.do(ctx, http.MethodPost, canvasPath(projectID, t)+"/items", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCanvasItem edits a note's text.
func (c *Client) UpdateCanvasItem(ctx context.Context, projectID string, t canvas.Type, itemID, text string) (*canvas.Canvas, error) {
	var out canvas.Canvas
	req := api.UpdateCanvasItemRequest{Text: text}
	if err := c.do(ctx, http.MethodPatch, canvasPath(projectID, t)+"/items/"+escape(itemID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCanvasItem deletes a note.
func (c *Client) RemoveCanvasItem(ctx context.Context, projectID string, t canvas.Type, itemID string) (*canvas.Canvas, error) {
	var out canvas.Canvas
	if err := c.do(ctx, http.MethodDelete, canvasPath(projectID, t)+"/items/"+escape(itemID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CycleCanvasItem advances a note's validation status.
func (c *Client) CycleCanvasItem(ctx context.Context, projectID string, t canvas.Type, itemID string) (*canvas.Canvas, error) {
	var out canvas.Canvas
	if err := c.do(ctx, http.MethodPost, canvasPath(projectID, t)+"/items/"+escape(itemID)+"/cycle", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTiers returns the available plans.
func (c *Client) ListTiers(ctx context.Context) ([]subscription.Tier, error) {
	var out []subscription.Tier
	err := c.do(ctx, http.MethodGet, "/rest/v1/subscription_tiers", nil, nil, &out)
	return out, err
}

// CurrentSubscription returns the caller's plan.
func (c *Client) CurrentSubscription(ctx context.Context) (*subscription.Current, error) {
	var out subscription.Current
	if err := c.do(ctx, http.MethodGet, "/rest/v1/user_subscriptions", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeTier switches the caller to tierID.
func (c *Client) ChangeTier(ctx context.Context, tierID string) (*subscription.Current, error) {
	var out subscription.Current
	req := api.ChangeTierRequest{TierID: tierID}
	if err := c.do(ctx, http.MethodPut, "/rest/v1/user_subscriptions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
