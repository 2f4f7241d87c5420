package api_test

import (
	"testing"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/stretchr/testify/require"
)

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{
			name:    "missing name",
			payload: api.CreateProjectRequest{},
			want:    "name is required",
		},
		{
			name:    "bad model type",
			payload: api.CreateProjectRequest{Name: "Alpha", ModelType: strPtr("lean")},
			want:    "model_type must be one of: business_model, product, social_business",
		},
		{
			name:    "bad status",
			payload: api.UpdateStatusRequest{Status: "done"},
			want:    "status must be one of: backlog, running, completed",
		},
		{
			name:    "short password",
			payload: api.SignUpRequest{Email: "ada@example.com", Password: "short"},
			want:    "password must be at least 8 characters",
		},
		{
			name:    "embedded member email",
			payload: api.AddMemberRequest{TeamID: "t1", MemberInput: api.MemberInput{Name: "Bo", Email: "nope"}},
			want:    "email must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := api.Validate(tt.payload)
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	require.NoError(t, api.Validate(api.CreateExperimentRequest{
		ProjectID: "p1",
		Title:     "Landing page",
		Status:    "running",
		Assignees: []string{"ada@example.com"},
	}))
	require.NoError(t, api.Validate(api.SetModelRequest{ModelType: "product"}))
	require.EqualError(t, api.Validate(api.SetModelRequest{}), "model_type is required")
}

func strPtr(s string) *string { return &s }
