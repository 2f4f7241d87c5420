package insight

import "time"

// Insight closes the loop on what an experiment taught.
type Insight struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id,omitempty"`
	ProjectID    string    `json:"project_id"`
	ExperimentID *string   `json:"experiment_id,omitempty"`
	Title        string    `json:"title"`
	Type         *string   `json:"type,omitempty"`
	Hypothesis   string    `json:"hypothesis,omitempty"`
	Observation  string    `json:"observation,omitempty"`
	InsightText  string    `json:"insight_text"`
	NextSteps    string    `json:"next_steps,omitempty"`
	Assignees    []string  `json:"assignees"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Key returns the insight id.
func (i Insight) Key() string { return i.ID }

// ListOptions filters insight listings.
type ListOptions struct {
	ProjectID    string
	ExperimentID *string
}
