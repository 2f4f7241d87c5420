package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/statesync"
	"github.com/matthallesq/modlab/internal/ux"
)

func (c *cli) insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "insights",
		Aliases: []string{"insight", "i"},
		Short:   "Record what experiments taught",
	}
	cmd.AddCommand(c.insightsListCmd(), c.insightsAddCmd(), c.insightsDeleteCmd())
	return cmd
}

func (c *cli) insightsListCmd() *cobra.Command {
	var experimentRef string
	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List insights, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			list := ws.Insights.List(p.ID)
			if experimentRef != "" {
				e, err := resolve(ws.Experiments.List(p.ID), experimentRef, "experiment")
				if err != nil {
					return err
				}
				list = ws.Insights.ForExperiment(p.ID, e.ID)
			}
			return c.emit(list, func() { c.printer.Block(ux.Insights(list)) })
		},
	}
	cmd.Flags().StringVar(&experimentRef, "experiment", "", "only insights from this experiment")
	return cmd
}

func (c *cli) insightsAddCmd() *cobra.Command {
	var text, experimentRef, kind, hypothesis, observation, next string
	var assignees []string
	cmd := &cobra.Command{
		Use:   "add PROJECT TITLE",
		Short: "Record an insight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := insight.Insight{
				ID:          statesync.NewID(),
				ProjectID:   p.ID,
				Title:       args[1],
				InsightText: text,
				Hypothesis:  hypothesis,
				Observation: observation,
				NextSteps:   next,
				Assignees:   assignees,
			}
			if in.Assignees == nil {
				in.Assignees = []string{}
			}
			if kind != "" {
				in.Type = &kind
			}
			if experimentRef != "" {
				e, err := resolve(ws.Experiments.List(p.ID), experimentRef, "experiment")
				if err != nil {
					return err
				}
				in.ExperimentID = &e.ID
			}
			if !ws.Insights.Save(cmd.Context(), p.ID, in) {
				return rejected("record insight", ws.Insights.LastError())
			}
			saved, _ := ws.Insights.Get(p.ID, in.ID)
			return c.emit(saved, func() {
				c.printer.Success(fmt.Sprintf("recorded %q (%s)", saved.Title, saved.ID))
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "the insight itself")
	cmd.Flags().StringVar(&experimentRef, "experiment", "", "experiment the insight came from")
	cmd.Flags().StringVar(&kind, "type", "", "free-form category")
	cmd.Flags().StringVar(&hypothesis, "hypothesis", "", "hypothesis that was tested")
	cmd.Flags().StringVar(&observation, "observation", "", "what was observed")
	cmd.Flags().StringVar(&next, "next", "", "next steps")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "assignee name (repeatable)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func (c *cli) insightsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT INSIGHT",
		Short: "Delete an insight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in, err := resolve(ws.Insights.List(p.ID), args[1], "insight")
			if err != nil {
				return err
			}
			if !ws.Insights.Delete(cmd.Context(), p.ID, in.ID) {
				return rejected("delete insight", ws.Insights.LastError())
			}
			c.printer.Success("deleted " + in.Title)
			return nil
		},
	}
}

func (c *cli) timelineCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "timeline PROJECT",
		Short: "Show a project's recent activity, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			ws, p, err := c.project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			events := ws.Timeline.Recent(p.ID, limit)
			if events == nil {
				events = []timeline.Event{}
			}
			return c.emit(events, func() {
				c.printer.Title(p.Name)
				c.printer.Block(ux.Timeline(events))
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of events (0 for all)")
	return cmd
}
