package remote

import (
	"context"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// The stores below adapt the client to per-family CRUD keyed by a scope id.
// Projects and teams live in the tenant scope, so their scope id is ignored.

// ProjectStore persists projects.
type ProjectStore struct{ c *Client }

// Projects returns the project store.
func (c *Client) Projects() *ProjectStore { return &ProjectStore{c: c} }

func (s *ProjectStore) List(ctx context.Context, _ string) ([]project.Project, error) {
	return s.c.ListProjects(ctx, false)
}

func (s *ProjectStore) Create(ctx context.Context, _ string, p project.Project) (project.Project, error) {
	req := api.CreateProjectRequest{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TeamID:      p.TeamID,
	}
	if p.ModelType != nil {
		t := string(*p.ModelType)
		req.ModelType = &t
	}
	out, err := s.c.CreateProject(ctx, req)
	if err != nil {
		return project.Project{}, err
	}
	return *out, nil
}

func (s *ProjectStore) Update(ctx context.Context, _ string, p project.Project) (project.Project, error) {
	archived := p.Archived
	out, err := s.c.UpdateProject(ctx, p.ID, api.UpdateProjectRequest{
		Name:        &p.Name,
		Description: &p.Description,
		Archived:    &archived,
		Version:     p.Version,
	})
	if err != nil {
		return project.Project{}, err
	}
	return *out, nil
}

func (s *ProjectStore) Delete(ctx context.Context, _ string, id string) error {
	return s.c.DeleteProject(ctx, id)
}

// ExperimentStore persists experiments scoped by project.
type ExperimentStore struct{ c *Client }

// Experiments returns the experiment store.
func (c *Client) Experiments() *ExperimentStore { return &ExperimentStore{c: c} }

func (s *ExperimentStore) List(ctx context.Context, projectID string) ([]experiment.Experiment, error) {
	return s.c.ListExperiments(ctx, projectID)
}

func (s *ExperimentStore) Create(ctx context.Context, projectID string, e experiment.Experiment) (experiment.Experiment, error) {
	out, err := s.c.CreateExperiment(ctx, api.CreateExperimentRequest{
		ID:              e.ID,
		ProjectID:       projectID,
		Title:           e.Title,
		Hypothesis:      e.Hypothesis,
		TestDescription: e.TestDescription,
		SuccessCriteria: e.SuccessCriteria,
		Status:          string(e.Status),
		Priority:        string(e.Priority),
		Results:         e.Results,
		DueDate:         e.DueDate,
		Assignees:       e.Assignees,
	})
	if err != nil {
		return experiment.Experiment{}, err
	}
	return *out, nil
}

// Update writes every editable field. The status is changed separately
// through UpdateStatus.
func (s *ExperimentStore) Update(ctx context.Context, _ string, e experiment.Experiment) (experiment.Experiment, error) {
	priority := string(e.Priority)
	assignees := e.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	out, err := s.c.UpdateExperiment(ctx, e.ID, api.UpdateExperimentRequest{
		Title:           &e.Title,
		Hypothesis:      &e.Hypothesis,
		TestDescription: &e.TestDescription,
		SuccessCriteria: &e.SuccessCriteria,
		Priority:        &priority,
		Results:         e.Results,
		DueDate:         e.DueDate,
		ClearDueDate:    e.DueDate == nil,
		Assignees:       assignees,
		Version:         e.Version,
	})
	if err != nil {
		return experiment.Experiment{}, err
	}
	return *out, nil
}

func (s *ExperimentStore) UpdateStatus(ctx context.Context, e experiment.Experiment) (experiment.Experiment, error) {
	out, err := s.c.UpdateExperimentStatus(ctx, e.ID, e.Status, e.Version)
	if err != nil {
		return experiment.Experiment{}, err
	}
	return *out, nil
}

func (s *ExperimentStore) Delete(ctx context.Context, _ string, id string) error {
	return s.c.DeleteExperiment(ctx, id)
}

// InsightStore persists insights scoped by project.
type InsightStore struct{ c *Client }

// Insights returns the insight store.
func (c *Client) Insights() *InsightStore { return &InsightStore{c: c} }

func (s *InsightStore) List(ctx context.Context, projectID string) ([]insight.Insight, error) {
	return s.c.ListInsights(ctx, projectID)
}

func (s *InsightStore) Create(ctx context.Context, projectID string, in insight.Insight) (insight.Insight, error) {
	out, err := s.c.CreateInsight(ctx, api.CreateInsightRequest{
		ID:           in.ID,
		ProjectID:    projectID,
		ExperimentID: in.ExperimentID,
		Title:        in.Title,
		Type:         in.Type,
		Hypothesis:   in.Hypothesis,
		Observation:  in.Observation,
		InsightText:  in.InsightText,
		NextSteps:    in.NextSteps,
		Assignees:    in.Assignees,
	})
	if err != nil {
		return insight.Insight{}, err
	}
	return *out, nil
}

func (s *InsightStore) Update(ctx context.Context, _ string, in insight.Insight) (insight.Insight, error) {
	experimentID := ""
	if in.ExperimentID != nil {
		experimentID = *in.ExperimentID
	}
	assignees := in.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	out, err := s.c.UpdateInsight(ctx, in.ID, api.UpdateInsightRequest{
		Title:        &in.Title,
		Type:         in.Type,
		Hypothesis:   &in.Hypothesis,
		Observation:  &in.Observation,
		InsightText:  &in.InsightText,
		NextSteps:    &in.NextSteps,
		ExperimentID: &experimentID,
		Assignees:    assignees,
		Version:      in.Version,
	})
	if err != nil {
		return insight.Insight{}, err
	}
	return *out, nil
}

func (s *InsightStore) Delete(ctx context.Context, _ string, id string) error {
	return s.c.DeleteInsight(ctx, id)
}

// TeamStore persists teams. Update only renames; members have their own calls.
type TeamStore struct{ c *Client }

// Teams returns the team store.
func (c *Client) Teams() *TeamStore { return &TeamStore{c: c} }

func (s *TeamStore) List(ctx context.Context, _ string) ([]team.Team, error) {
	return s.c.ListTeams(ctx)
}

func (s *TeamStore) Create(ctx context.Context, _ string, t team.Team) (team.Team, error) {
	req := api.CreateTeamRequest{ID: t.ID, Name: t.Name}
	if owner, ok := t.Owner(); ok {
		req.Owner = &api.MemberInput{Name: owner.Name, Email: owner.Email, AvatarURL: owner.AvatarURL}
	}
	out, err := s.c.CreateTeam(ctx, req)
	if err != nil {
		return team.Team{}, err
	}
	return *out, nil
}

func (s *TeamStore) Update(ctx context.Context, _ string, t team.Team) (team.Team, error) {
	out, err := s.c.RenameTeam(ctx, t.ID, t.Name)
	if err != nil {
		return team.Team{}, err
	}
	return *out, nil
}

func (s *TeamStore) Delete(ctx context.Context, _ string, id string) error {
	return s.c.DeleteTeam(ctx, id)
}

// TimelineStore reads a project's timeline.
type TimelineStore struct{ c *Client }

// Timeline returns the timeline store.
func (c *Client) Timeline() *TimelineStore { return &TimelineStore{c: c} }

func (s *TimelineStore) List(ctx context.Context, projectID string) ([]timeline.Event, error) {
	return s.c.ListTimeline(ctx, projectID, 0)
}
