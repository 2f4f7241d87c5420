package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/localcache"
	"github.com/matthallesq/modlab/internal/statesync"
	"github.com/matthallesq/modlab/internal/ux"
)

const defaultWidth = 120

func (c *cli) experimentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiments",
		Aliases: []string{"experiment", "exp", "e"},
		Short:   "Manage a project's experiments",
	}
	cmd.AddCommand(
		c.experimentsListCmd(),
		c.experimentsAddCmd(),
		c.experimentsUpdateCmd(),
		c.experimentsMoveCmd(),
		c.experimentsDeleteCmd(),
	)
	return cmd
}

func (c *cli) experimentsListCmd() *cobra.Command {
	var status, view string
	var width int
	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "Show experiments as a board or a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			mode, err := c.viewMode(cmd.Context(), view)
			if err != nil {
				return err
			}

			if status != "" {
				s := experiment.Status(status)
				if !s.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				list := ws.Experiments.ByStatus(p.ID)[s]
				return c.emit(list, func() { c.printer.Block(ux.ExperimentList(list)) })
			}

			list := ws.Experiments.List(p.ID)
			return c.emit(list, func() {
				c.printer.Title(p.Name)
				if mode == ux.ViewList {
					c.printer.Block(ux.ExperimentList(list))
					return
				}
				c.printer.Block(ux.Board(ws.Experiments.ByStatus(p.ID), terminalWidth(width)))
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only this column: backlog, running or completed")
	cmd.Flags().StringVar(&view, "view", "", "kanban or list (defaults to the saved view)")
	cmd.Flags().IntVar(&width, "width", 0, "board width in columns")
	return cmd
}

type experimentFlags struct {
	title       string
	hypothesis  string
	test        string
	criteria    string
	priority    string
	status      string
	results     string
	due         string
	assignees   []string
	clearDue    bool
	clearResult bool
}

func (f *experimentFlags) register(cmd *cobra.Command, create bool) {
	if !create {
		cmd.Flags().StringVar(&f.title, "title", "", "new title")
		cmd.Flags().StringVar(&f.results, "results", "", "what the experiment showed")
		cmd.Flags().BoolVar(&f.clearDue, "clear-due", false, "remove the due date")
		cmd.Flags().BoolVar(&f.clearResult, "clear-results", false, "remove the results")
	} else {
		cmd.Flags().StringVar(&f.status, "status", "", "initial column (default backlog)")
	}
	cmd.Flags().StringVar(&f.hypothesis, "hypothesis", "", "what you believe will happen")
	cmd.Flags().StringVar(&f.test, "test", "", "how the hypothesis is tested")
	cmd.Flags().StringVar(&f.criteria, "criteria", "", "what counts as success")
	cmd.Flags().StringVar(&f.priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&f.due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.assignees, "assignee", nil, "assignee name (repeatable)")
}

// apply copies every flag the user set onto e.
func (f *experimentFlags) apply(cmd *cobra.Command, e *experiment.Experiment) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		e.Title = f.title
	}
	if changed("hypothesis") {
		e.Hypothesis = f.hypothesis
	}
	if changed("test") {
		e.TestDescription = f.test
	}
	if changed("criteria") {
		e.SuccessCriteria = f.criteria
	}
	if changed("priority") {
		p := experiment.Priority(f.priority)
		if !p.Valid() {
			return fmt.Errorf("unknown priority %q", f.priority)
		}
		e.Priority = p
	}
	if changed("status") {
		s := experiment.Status(f.status)
		if !s.Valid() {
			return fmt.Errorf("unknown status %q", f.status)
		}
		e.Status = s
	}
	if changed("results") {
		r := f.results
		e.Results = &r
	}
	if f.clearResult {
		e.Results = nil
	}
	if changed("due") {
		d, err := time.Parse(time.DateOnly, f.due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: want YYYY-MM-DD", f.due)
		}
		e.DueDate = &d
	}
	if f.clearDue {
		e.DueDate = nil
	}
	if changed("assignee") {
		e.Assignees = f.assignees
	}
	return nil
}

func (c *cli) experimentsAddCmd() *cobra.Command {
	var f experimentFlags
	cmd := &cobra.Command{
		Use:   "add PROJECT TITLE",
		Short: "Add an experiment to the backlog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e := experiment.Experiment{
				ID:        statesync.NewID(),
				ProjectID: p.ID,
				Title:     args[1],
				Status:    experiment.StatusBacklog,
				Priority:  experiment.PriorityMedium,
				Assignees: []string{},
			}
			if err := f.apply(cmd, &e); err != nil {
				return err
			}
			if !ws.Experiments.Save(cmd.Context(), p.ID, e) {
				return rejected("add experiment", ws.Experiments.LastError())
			}
			saved, _ := ws.Experiments.Get(p.ID, e.ID)
			return c.emit(saved, func() {
				c.printer.Success(fmt.Sprintf("added %q to %s (%s)", saved.Title, saved.Status, saved.ID))
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func (c *cli) experimentsUpdateCmd() *cobra.Command {
	var f experimentFlags
	cmd := &cobra.Command{
		Use:   "update PROJECT EXPERIMENT",
		Short: "Edit an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e, err := resolve(ws.Experiments.List(p.ID), args[1], "experiment")
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &e); err != nil {
				return err
			}
			if !ws.Experiments.Save(cmd.Context(), p.ID, e) {
				return rejected("update experiment", ws.Experiments.LastError())
			}
			saved, _ := ws.Experiments.Get(p.ID, e.ID)
			return c.emit(saved, func() { c.printer.Success("updated " + saved.Title) })
		},
	}
	f.register(cmd, false)
	return cmd
}

func (c *cli) experimentsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move PROJECT EXPERIMENT STATUS",
		Short: "Move an experiment to another column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := experiment.Status(args[2])
			if !status.Valid() {
				return fmt.Errorf("unknown status %q", args[2])
			}
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e, err := resolve(ws.Experiments.List(p.ID), args[1], "experiment")
			if err != nil {
				return err
			}
			if !ws.Experiments.UpdateStatus(cmd.Context(), p.ID, e.ID, status) {
				return rejected("move experiment", ws.Experiments.LastError())
			}
			c.printer.Success(fmt.Sprintf("%s is now %s", e.Title, status))
			return nil
		},
	}
}

func (c *cli) experimentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT EXPERIMENT",
		Short: "Delete an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e, err := resolve(ws.Experiments.List(p.ID), args[1], "experiment")
			if err != nil {
				return err
			}
			if !ws.Experiments.Delete(cmd.Context(), p.ID, e.ID) {
				return rejected("delete experiment", ws.Experiments.LastError())
			}
			c.printer.Success("deleted " + e.Title)
			return nil
		},
	}
}

func (c *cli) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [kanban|list]",
		Short: "Show or set the default experiment view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				mode, err := c.viewMode(cmd.Context(), "")
				if err != nil {
					return err
				}
				c.printer.Block(string(mode))
				return nil
			}
			mode, err := ux.ParseViewMode(args[0])
			if err != nil {
				return err
			}
			cache, err := c.openCache()
			if err != nil {
				return err
			}
			if err := cache.Put(cmd.Context(), localcache.KeyViewMode, mode); err != nil {
				return err
			}
			c.printer.Success("experiments now show as " + string(mode))
			return nil
		},
	}
}

// viewMode returns override when set, else the saved mode, else kanban.
func (c *cli) viewMode(ctx context.Context, override string) (ux.ViewMode, error) {
	if override != "" {
		return ux.ParseViewMode(override)
	}
	cache, err := c.openCache()
	if err != nil {
		return "", err
	}
	var mode ux.ViewMode
	ok, err := cache.Get(ctx, localcache.KeyViewMode, &mode)
	if err != nil {
		c.logger.Warn("reading view mode", "error", err)
	}
	if !ok || err != nil {
		return ux.ViewKanban, nil
	}
	if _, perr := ux.ParseViewMode(string(mode)); perr != nil {
		return ux.ViewKanban, nil
	}
	return mode, nil
}

func terminalWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}
