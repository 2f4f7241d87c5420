package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// ViewMode picks how experiments are shown.
type ViewMode string

const (
	ViewKanban ViewMode = "kanban"
	ViewList   ViewMode = "list"
)

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewKanban:
		return ViewKanban, nil
	case ViewList:
		return ViewList, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want kanban or list)", s)
}

const minColumnWidth = 24

var columnTitles = map[experiment.Status]string{
	experiment.StatusBacklog:   "Backlog",
	experiment.StatusRunning:   "Running",
	experiment.StatusCompleted: "Completed",
}

// Board renders experiments as kanban columns in board order. width is the
// total terminal width; columns never shrink below a readable minimum.
func Board(columns map[experiment.Status][]experiment.Experiment, width int) string {
	statuses := experiment.Statuses()
	colWidth := width/len(statuses) - 2
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	rendered := make([]string, 0, len(statuses))
	for _, s := range statuses {
		items := columns[s]
		parts := []string{Styles.ColumnHeader.Render(fmt.Sprintf("%s (%d)", columnTitles[s], len(items)))}
		if len(items) == 0 {
			parts = append(parts, Styles.Muted.Render("empty"))
		}
		for _, e := range items {
			parts = append(parts, card(e, colWidth-4))
		}
		col := Styles.Column.Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
		rendered = append(rendered, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func card(e experiment.Experiment, width int) string {
	lines := []string{Styles.Bold.Render(e.Title)}
	meta := []string{priorityLabel(e.Priority)}
	if e.DueDate != nil {
		meta = append(meta, "due "+e.DueDate.Format(time.DateOnly))
	}
	lines = append(lines, strings.Join(meta, " · "))
	if len(e.Assignees) > 0 {
		lines = append(lines, Styles.Muted.Render(strings.Join(e.Assignees, ", ")))
	}
	lines = append(lines, Styles.Muted.Render(shortID(e.ID)))
	return Styles.Card.Width(width).Render(strings.Join(lines, "\n"))
}

func priorityLabel(p experiment.Priority) string {
	if p == experiment.PriorityHigh {
		return Styles.Highlight.Render(string(p))
	}
	return string(p)
}

// ExperimentList renders one experiment per line.
func ExperimentList(list []experiment.Experiment) string {
	if len(list) == 0 {
		return Styles.Muted.Render("no experiments")
	}
	var b strings.Builder
	for _, e := range list {
		fmt.Fprintf(&b, "%s  %-9s  %-6s  %s\n", shortID(e.ID), e.Status, e.Priority, e.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Projects renders the project list with its counters.
func Projects(list []project.Project) string {
	if len(list) == 0 {
		return Styles.Muted.Render("no projects")
	}
	var b strings.Builder
	for _, p := range list {
		model := "-"
		if p.ModelType != nil {
			model = string(*p.ModelType)
		}
		name := p.Name
		if p.Archived {
			name += " (archived)"
		}
		fmt.Fprintf(&b, "%s  %-32s  %-16s  %d experiments, %d running, %d insights\n",
			p.ID, name, model, p.Analytics.Experiments, p.Analytics.RunningExperiments, p.Analytics.Insights)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Insights renders insights oldest first.
func Insights(list []insight.Insight) string {
	if len(list) == 0 {
		return Styles.Muted.Render("no insights")
	}
	var b strings.Builder
	for _, in := range list {
		fmt.Fprintf(&b, "%s %s  %s\n", IconBullet.Render(), Styles.Bold.Render(in.Title), Styles.Muted.Render(shortID(in.ID)))
		fmt.Fprintf(&b, "  %s\n", in.InsightText)
		if in.NextSteps != "" {
			fmt.Fprintf(&b, "  next: %s\n", in.NextSteps)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Timeline renders events in the order given.
func Timeline(events []timeline.Event) string {
	if len(events) == 0 {
		return Styles.Muted.Render("no activity yet")
	}
	var b strings.Builder
	for _, evt := range events {
		fmt.Fprintf(&b, "%s  %-24s  %s", Styles.Muted.Render(evt.CreatedAt.Local().Format("2006-01-02 15:04")), evt.Type, evt.Title)
		if evt.Description != "" {
			fmt.Fprintf(&b, ": %s", evt.Description)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

var itemIcons = map[canvas.ItemStatus]Icon{
	canvas.StatusAssumption: IconPending,
	canvas.StatusTesting:    IconWarning,
	canvas.StatusValidated:  IconSuccess,
}

// Canvas renders every section of c in template order.
func Canvas(c *canvas.Canvas, width int) string {
	if width < minColumnWidth {
		width = minColumnWidth
	}
	blocks := []string{Styles.Title.Render(string(c.Type))}
	for _, s := range canvas.Sections(c.Type) {
		lines := []string{Styles.Subtitle.Render(s.String())}
		items := c.Sections[s]
		if len(items) == 0 {
			lines = append(lines, Styles.Muted.Render("empty"))
		}
		for _, it := range items {
			icon, ok := itemIcons[it.Status]
			if !ok {
				icon = IconPending
			}
			lines = append(lines, fmt.Sprintf("%s %s %s", icon.Render(), it.Text, Styles.Muted.Render(shortID(it.ID))))
		}
		blocks = append(blocks, Styles.Section.Width(width-2).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
