package project

import (
	"time"

	"github.com/matthallesq/modlab/internal/domain/canvas"
)

// Project is a business idea under exploration.
type Project struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id,omitempty"`
	OwnerID     string       `json:"owner_id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	TeamID      *string      `json:"team_id,omitempty"`
	ModelType   *canvas.Type `json:"model_type,omitempty"`
	Archived    bool         `json:"archived"`
	Analytics   Analytics    `json:"analytics"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Key returns the project id.
func (p Project) Key() string { return p.ID }

// Analytics are display counters computed on read.
type Analytics struct {
	Experiments          int `json:"experiments"`
	RunningExperiments   int `json:"running_experiments"`
	CompletedExperiments int `json:"completed_experiments"`
	Insights             int `json:"insights"`
}

// ListOptions filters project listings.
type ListOptions struct {
	IncludeArchived bool
}
