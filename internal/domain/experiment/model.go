package experiment

import "time"

// Status is the kanban column an experiment sits in.
type Status string

const (
	StatusBacklog   Status = "backlog"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// Statuses lists the kanban columns in board order.
func Statuses() []Status {
	return []Status{StatusBacklog, StatusRunning, StatusCompleted}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusRunning, StatusCompleted:
		return true
	}
	return false
}

// Priority ranks experiments within a column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Experiment is a falsifiable test of a canvas assumption.
type Experiment struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id,omitempty"`
	ProjectID       string     `json:"project_id"`
	Title           string     `json:"title"`
	Hypothesis      string     `json:"hypothesis"`
	TestDescription string     `json:"test_description,omitempty"`
	SuccessCriteria string     `json:"success_criteria,omitempty"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	Results         *string    `json:"results,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Assignees       []string   `json:"assignees"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Key returns the experiment id.
func (e Experiment) Key() string { return e.ID }

// ListOptions filters experiment listings.
type ListOptions struct {
	ProjectID string
	Status    *Status
}
