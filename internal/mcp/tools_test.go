package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/matthallesq/modlab/internal/app"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/mcp"
	"github.com/matthallesq/modlab/internal/testserver"
)

func connect(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(mcp.Config{
		Services:      app.MCPServices(ts.App.Services),
		DefaultTenant: ts.TenantID,
	})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decodeResult[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func TestTools_Catalog(t *testing.T) {
	session := connect(t, testserver.New(t))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"list_projects", "create_project", "list_experiments", "save_experiment",
		"update_experiment_status", "record_insight", "get_timeline",
	}, names)
}

func TestTools_GuideResource(t *testing.T) {
	session := connect(t, testserver.New(t))

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "modlab://docs/guide"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	require.Contains(t, res.Contents[0].Text, "# modlab: Agent Guide")
}

func TestTools_ExperimentFlow(t *testing.T) {
	session := connect(t, testserver.New(t))

	proj := decodeResult[project.Project](t, callTool(t, session, "create_project", map[string]any{
		"name":       "Alpha",
		"model_type": "product",
	}))
	require.Equal(t, "Alpha", proj.Name)

	projects := decodeResult[[]project.Project](t, callTool(t, session, "list_projects", map[string]any{}))
	require.Len(t, projects, 1)

	exp := decodeResult[experiment.Experiment](t, callTool(t, session, "save_experiment", map[string]any{
		"project_id": proj.ID,
		"title":      "E1",
		"hypothesis": "Freelancers pay for invoicing",
		"due_date":   "2026-11-01",
	}))
	require.Equal(t, experiment.StatusBacklog, exp.Status)
	require.NotNil(t, exp.DueDate)

	updated := decodeResult[experiment.Experiment](t, callTool(t, session, "save_experiment", map[string]any{
		"project_id": proj.ID,
		"id":         exp.ID,
		"title":      "E1 revised",
		"priority":   "high",
		"version":    exp.Version,
	}))
	require.Equal(t, exp.ID, updated.ID)
	require.Equal(t, "E1 revised", updated.Title)
	require.Equal(t, experiment.PriorityHigh, updated.Priority)

	running := decodeResult[experiment.Experiment](t, callTool(t, session, "update_experiment_status", map[string]any{
		"id":     exp.ID,
		"status": "running",
	}))
	require.Equal(t, experiment.StatusRunning, running.Status)

	board := decodeResult[[]experiment.Experiment](t, callTool(t, session, "list_experiments", map[string]any{
		"project_id": proj.ID,
		"status":     "running",
	}))
	require.Len(t, board, 1)

	in := decodeResult[insight.Insight](t, callTool(t, session, "record_insight", map[string]any{
		"project_id":    proj.ID,
		"experiment_id": exp.ID,
		"title":         "Invoices matter",
		"insight_text":  "Late payment is the real pain",
	}))
	require.NotNil(t, in.ExperimentID)

	events := decodeResult[[]timeline.Event](t, callTool(t, session, "get_timeline", map[string]any{
		"project_id": proj.ID,
	}))
	require.NotEmpty(t, events)
	require.Equal(t, timeline.TypeInsightAdded, events[0].Type)

	running2 := decodeResult[[]timeline.Event](t, callTool(t, session, "get_timeline", map[string]any{
		"project_id": proj.ID,
		"type":       "experiment_running",
	}))
	require.Len(t, running2, 1)
}

func TestTools_Errors(t *testing.T) {
	session := connect(t, testserver.New(t))

	res := callTool(t, session, "update_experiment_status", map[string]any{"id": "missing", "status": "shipped"})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "INVALID_INPUT")

	res = callTool(t, session, "update_experiment_status", map[string]any{"id": "missing", "status": "running"})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "EXPERIMENT_NOT_FOUND")

	callTool(t, session, "create_project", map[string]any{"name": "Alpha"})
	res = callTool(t, session, "create_project", map[string]any{"name": "Beta"})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "LIMIT_REACHED")

	res = callTool(t, session, "save_experiment", map[string]any{"project_id": "nope", "title": "E1"})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "PROJECT_NOT_FOUND")

	res = callTool(t, session, "save_experiment", map[string]any{"project_id": "nope", "title": "E1", "due_date": "soon"})
	require.True(t, res.IsError)
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}

func TestTools_OverHTTP(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: ts.Token}},
		MaxRetries: -1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	decodeResult[project.Project](t, callTool(t, session, "create_project", map[string]any{"name": "Alpha"}))

	projects, err := ts.App.Services.Projects.List(ctx, ts.TenantID, project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Alpha", projects[0].Name)
}
