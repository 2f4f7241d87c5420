package ux

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

func TestParseViewMode(t *testing.T) {
	mode, err := ParseViewMode(" Kanban ")
	require.NoError(t, err)
	require.Equal(t, ViewKanban, mode)

	mode, err = ParseViewMode("list")
	require.NoError(t, err)
	require.Equal(t, ViewList, mode)

	_, err = ParseViewMode("grid")
	require.Error(t, err)
}

func TestBoard_ColumnsInOrder(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	columns := map[experiment.Status][]experiment.Experiment{
		experiment.StatusBacklog: {
			{ID: "exp-00000001", Title: "Landing page", Priority: experiment.PriorityHigh, DueDate: &due},
			{ID: "exp-00000002", Title: "Price check", Priority: experiment.PriorityLow},
		},
		experiment.StatusRunning:   {{ID: "exp-00000003", Title: "Interviews", Priority: experiment.PriorityMedium, Assignees: []string{"ana"}}},
		experiment.StatusCompleted: {},
	}

	out := Board(columns, 120)

	backlog := strings.Index(out, "Backlog (2)")
	running := strings.Index(out, "Running (1)")
	completed := strings.Index(out, "Completed (0)")
	require.GreaterOrEqual(t, backlog, 0)
	require.Greater(t, running, backlog)
	require.Greater(t, completed, running)

	require.Contains(t, out, "Landing page")
	require.Contains(t, out, "due 2026-03-01")
	require.Contains(t, out, "Interviews")
	require.Contains(t, out, "ana")
	require.Contains(t, out, "empty")
}

func TestBoard_NarrowTerminal(t *testing.T) {
	out := Board(map[experiment.Status][]experiment.Experiment{}, 10)
	for _, line := range strings.Split(out, "\n") {
		require.GreaterOrEqual(t, len([]rune(line)), minColumnWidth)
	}
}

func TestExperimentList(t *testing.T) {
	require.Contains(t, ExperimentList(nil), "no experiments")

	out := ExperimentList([]experiment.Experiment{
		{ID: "0190aaaa-bbbb-7ccc-8ddd-eeeeffff0001", Title: "Smoke test", Status: experiment.StatusRunning, Priority: experiment.PriorityLow},
	})
	require.Contains(t, out, "ffff0001")
	require.Contains(t, out, "running")
	require.Contains(t, out, "Smoke test")
}

func TestCanvas_RendersEverySection(t *testing.T) {
	c := canvas.Empty("p1", canvas.TypeProduct)
	sections := canvas.Sections(canvas.TypeProduct)
	c.Sections[sections[0]] = []canvas.Item{{ID: "item-1", Text: "Busy parents", Status: canvas.StatusValidated}}

	out := Canvas(c, 60)
	for _, s := range sections {
		require.Contains(t, out, s.String())
	}
	require.Contains(t, out, "Busy parents")
	require.Contains(t, out, string(IconSuccess))
}

func TestTimeline(t *testing.T) {
	require.Contains(t, Timeline(nil), "no activity yet")

	out := Timeline([]timeline.Event{
		{Type: timeline.TypeExperimentCreated, Title: "Experiment created", Description: "Smoke test", CreatedAt: time.Now()},
	})
	require.Contains(t, out, "experiment_created")
	require.Contains(t, out, "Experiment created: Smoke test")
}

func TestPrinter_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut, Plain: true}

	p.Success("saved")
	p.Warning("offline")
	p.Error("boom")
	p.Info("hello")

	require.Equal(t, "OK: saved\nhello\n", out.String())
	require.Equal(t, "WARN: offline\nERROR: boom\n", errOut.String())
}
