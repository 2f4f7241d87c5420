package mcp

type ListProjectsParams struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"include archived projects"`
}

type CreateProjectParams struct {
	ID          string `json:"id,omitempty" jsonschema:"project id, generated when omitted"`
	Name        string `json:"name" jsonschema:"project display name"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
	ModelType   string `json:"model_type,omitempty" jsonschema:"canvas template: business_model, product or social_business"`
}

type ListExperimentsParams struct {
	ProjectID string `json:"project_id" jsonschema:"project to list"`
	Status    string `json:"status,omitempty" jsonschema:"only experiments in this column: backlog, running or completed"`
}

type SaveExperimentParams struct {
	ProjectID       string   `json:"project_id" jsonschema:"owning project"`
	ID              string   `json:"id,omitempty" jsonschema:"experiment id; an existing id updates that experiment"`
	Title           string   `json:"title" jsonschema:"short experiment title"`
	Hypothesis      string   `json:"hypothesis,omitempty" jsonschema:"what you believe will happen"`
	TestDescription string   `json:"test_description,omitempty" jsonschema:"how the hypothesis is tested"`
	SuccessCriteria string   `json:"success_criteria,omitempty" jsonschema:"what counts as validated"`
	Priority        string   `json:"priority,omitempty" jsonschema:"low, medium or high"`
	Status          string   `json:"status,omitempty" jsonschema:"initial column for new experiments, default backlog"`
	Results         string   `json:"results,omitempty" jsonschema:"observed results"`
	DueDate         string   `json:"due_date,omitempty" jsonschema:"due date as YYYY-MM-DD or RFC 3339"`
	Assignees       []string `json:"assignees,omitempty" jsonschema:"people working on the experiment"`
	Version         int64    `json:"version,omitempty" jsonschema:"expected version for updates; 0 skips the check"`
}

type UpdateExperimentStatusParams struct {
	ID     string `json:"id" jsonschema:"experiment id"`
	Status string `json:"status" jsonschema:"backlog, running or completed"`
}

type RecordInsightParams struct {
	ProjectID    string   `json:"project_id" jsonschema:"owning project"`
	ExperimentID string   `json:"experiment_id,omitempty" jsonschema:"experiment the insight came from"`
	Title        string   `json:"title" jsonschema:"short insight title"`
	Type         string   `json:"type,omitempty" jsonschema:"free-form category"`
	Hypothesis   string   `json:"hypothesis,omitempty"`
	Observation  string   `json:"observation,omitempty" jsonschema:"what was observed"`
	InsightText  string   `json:"insight_text" jsonschema:"what was learned"`
	NextSteps    string   `json:"next_steps,omitempty"`
	Assignees    []string `json:"assignees,omitempty"`
}

type GetTimelineParams struct {
	ProjectID string `json:"project_id" jsonschema:"project whose history to read"`
	Type      string `json:"type,omitempty" jsonschema:"only events of this type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum events, newest first"`
}
