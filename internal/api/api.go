// Package api defines the JSON payloads exchanged between the store server
// and its clients.
package api

import (
	"time"
)

// Error codes carried in ErrorResponse.
const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeLimitReached = "limit_reached"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SignUpRequest registers a password account.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"max=200"`
}

// SignInRequest exchanges credentials for a bearer token.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateProjectRequest creates a project.
type CreateProjectRequest struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty" validate:"max=4000"`
	TeamID      *string `json:"team_id,omitempty"`
	ModelType   *string `json:"model_type,omitempty" validate:"omitempty,canvas_type"`
}

// UpdateProjectRequest patches a project.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Archived    *bool   `json:"archived,omitempty"`
	Version     int64   `json:"version,omitempty" validate:"gte=0"`
}

// AssignTeamRequest assigns a project to a team, or unassigns it when
// TeamID is null.
type AssignTeamRequest struct {
	TeamID *string `json:"team_id"`
}

// SetModelRequest selects the canvas template for a project.
type SetModelRequest struct {
	ModelType string `json:"model_type" validate:"required,canvas_type"`
}

// CreateExperimentRequest creates an experiment.
type CreateExperimentRequest struct {
	ID              string     `json:"id,omitempty" validate:"omitempty,uuid"`
	ProjectID       string     `json:"project_id" validate:"required"`
	Title           string     `json:"title" validate:"required,max=200"`
	Hypothesis      string     `json:"hypothesis" validate:"max=4000"`
	TestDescription string     `json:"test_description,omitempty" validate:"max=4000"`
	SuccessCriteria string     `json:"success_criteria,omitempty" validate:"max=4000"`
	Status          string     `json:"status,omitempty" validate:"omitempty,oneof=backlog running completed"`
	Priority        string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Results         *string    `json:"results,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Assignees       []string   `json:"assignees,omitempty" validate:"max=50,dive,required,max=200"`
}

// UpdateExperimentRequest patches an experiment.
type UpdateExperimentRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Hypothesis      *string    `json:"hypothesis,omitempty" validate:"omitempty,max=4000"`
	TestDescription *string    `json:"test_description,omitempty" validate:"omitempty,max=4000"`
	SuccessCriteria *string    `json:"success_criteria,omitempty" validate:"omitempty,max=4000"`
	Priority        *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Results         *string    `json:"results,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	ClearDueDate    bool       `json:"clear_due_date,omitempty"`
	Assignees       []string   `json:"assignees,omitempty" validate:"max=50,dive,required,max=200"`
	Version         int64      `json:"version,omitempty" validate:"gte=0"`
}

// UpdateStatusRequest moves an experiment on the board.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=backlog running completed"`
	Version int64  `json:"version,omitempty" validate:"gte=0"`
}

// CreateInsightRequest records an insight.
type CreateInsightRequest struct {
	ID           string   `json:"id,omitempty" validate:"omitempty,uuid"`
	ProjectID    string   `json:"project_id" validate:"required"`
	ExperimentID *string  `json:"experiment_id,omitempty"`
	Title        string   `json:"title" validate:"required,max=200"`
	Type         *string  `json:"type,omitempty" validate:"omitempty,max=50"`
	Hypothesis   string   `json:"hypothesis,omitempty" validate:"max=4000"`
	Observation  string   `json:"observation,omitempty" validate:"max=4000"`
	InsightText  string   `json:"insight_text" validate:"required,max=4000"`
	NextSteps    string   `json:"next_steps,omitempty" validate:"max=4000"`
	Assignees    []string `json:"assignees,omitempty" validate:"max=50,dive,required,max=200"`
}

// UpdateInsightRequest patches an insight.
type UpdateInsightRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Type         *string  `json:"type,omitempty" validate:"omitempty,max=50"`
	Hypothesis   *string  `json:"hypothesis,omitempty" validate:"omitempty,max=4000"`
	Observation  *string  `json:"observation,omitempty" validate:"omitempty,max=4000"`
	InsightText  *string  `json:"insight_text,omitempty" validate:"omitempty,min=1,max=4000"`
	NextSteps    *string  `json:"next_steps,omitempty" validate:"omitempty,max=4000"`
	ExperimentID *string  `json:"experiment_id,omitempty"`
	Assignees    []string `json:"assignees,omitempty" validate:"max=50,dive,required,max=200"`
	Version      int64    `json:"version,omitempty" validate:"gte=0"`
}

// MemberInput describes a person joining a team.
type MemberInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// CreateTeamRequest creates a team. Owner defaults to the caller.
type CreateTeamRequest struct {
	ID    string       `json:"id,omitempty" validate:"omitempty,uuid"`
	Name  string       `json:"name" validate:"required,max=200"`
	Owner *MemberInput `json:"owner,omitempty"`
}

// RenameTeamRequest renames a team.
type RenameTeamRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// AddMemberRequest adds a member to a team.
type AddMemberRequest struct {
	TeamID string `json:"team_id" validate:"required"`
	MemberInput
	Role string `json:"role,omitempty" validate:"omitempty,oneof=admin member viewer"`
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner admin member viewer"`
}

// AddCanvasItemRequest adds a sticky note to a canvas section.
type AddCanvasItemRequest struct {
	Section string `json:"section" validate:"required"`
	Text    string `json:"text" validate:"required,max=1000"`
}

// UpdateCanvasItemRequest edits a sticky note.
type UpdateCanvasItemRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// ChangeTierRequest switches the caller's subscription tier.
type ChangeTierRequest struct {
	TierID string `json:"tier_id" validate:"required"`
}
