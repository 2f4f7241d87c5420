package main

import (
	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/statesync"
	"github.com/matthallesq/modlab/internal/ux"
)

func (c *cli) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		c.projectsListCmd(),
		c.projectsCreateCmd(),
		c.projectsRenameCmd(),
		c.projectsArchiveCmd(),
		c.projectsUnarchiveCmd(),
		c.projectsModelCmd(),
		c.projectsAssignTeamCmd(),
		c.projectsDeleteCmd(),
	)
	return cmd
}

func (c *cli) projectsListCmd() *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []project.Project
			if archived {
				client, err := c.requireClient()
				if err != nil {
					return err
				}
				if list, err = client.ListProjects(cmd.Context(), true); err != nil {
					return err
				}
			} else {
				ws, err := c.tenant(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range ws.ProjectList() {
					if !p.Archived {
						list = append(list, p)
					}
				}
			}
			return c.emit(list, func() { c.printer.Block(ux.Projects(list)) })
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived projects (needs the store)")
	return cmd
}

func (c *cli) projectsCreateCmd() *cobra.Command {
	var description, model, teamRef string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p := project.Project{
				ID:          statesync.NewID(),
				Name:        args[0],
				Description: description,
			}
			if model != "" {
				t, err := canvas.ParseType(model)
				if err != nil {
					return err
				}
				p.ModelType = &t
			}
			if teamRef != "" {
				tm, err := resolve(ws.TeamList(), teamRef, "team")
				if err != nil {
					return err
				}
				p.TeamID = &tm.ID
			}
			if !ws.SaveProject(cmd.Context(), p) {
				return rejected("create project", ws.Projects.LastError())
			}
			saved, _ := ws.Projects.Get("", p.ID)
			return c.emit(saved, func() {
				c.printer.Success("created project " + saved.Name + " (" + saved.ID + ")")
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&model, "model", "", "canvas template: business_model, product or social_business")
	cmd.Flags().StringVar(&teamRef, "team", "", "team id to share the project with")
	return cmd
}

func (c *cli) projectsRenameCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "rename PROJECT NAME",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolve(ws.ProjectList(), args[0], "project")
			if err != nil {
				return err
			}
			p.Name = args[1]
			if cmd.Flags().Changed("description") {
				p.Description = description
			}
			if !ws.SaveProject(cmd.Context(), p) {
				return rejected("rename project", ws.Projects.LastError())
			}
			c.printer.Success("renamed project to " + p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "replace the description too")
	return cmd
}

func (c *cli) projectsArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive PROJECT",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolve(ws.ProjectList(), args[0], "project")
			if err != nil {
				return err
			}
			p.Archived = true
			if !ws.SaveProject(cmd.Context(), p) {
				return rejected("archive project", ws.Projects.LastError())
			}
			c.printer.Success("archived " + p.Name)
			return nil
		},
	}
}

// Archived projects are listed only by the store, so restoring one goes
// straight to it.
func (c *cli) projectsUnarchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive PROJECT",
		Short: "Restore an archived project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			list, err := client.ListProjects(cmd.Context(), true)
			if err != nil {
				return err
			}
			p, err := resolve(list, args[0], "project")
			if err != nil {
				return err
			}
			restored := false
			updated, err := client.UpdateProject(cmd.Context(), p.ID, api.UpdateProjectRequest{
				Archived: &restored,
				Version:  p.Version,
			})
			if err != nil {
				return err
			}
			return c.emit(updated, func() { c.printer.Success("restored " + updated.Name) })
		},
	}
}

func (c *cli) projectsModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model PROJECT TYPE",
		Short: "Choose the project's canvas template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := canvas.ParseType(args[1])
			if err != nil {
				return err
			}
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolve(ws.ProjectList(), args[0], "project")
			if err != nil {
				return err
			}
			updated, err := client.SetModelType(cmd.Context(), p.ID, t)
			if err != nil {
				return err
			}
			if _, err := ws.Projects.Refresh(cmd.Context(), ""); err != nil {
				c.logger.Warn("refreshing projects", "error", err)
			}
			return c.emit(updated, func() {
				c.printer.Success(updated.Name + " now uses the " + string(t) + " canvas")
			})
		},
	}
}

func (c *cli) projectsAssignTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-team PROJECT TEAM|none",
		Short: "Share a project with a team, or unassign it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolve(ws.ProjectList(), args[0], "project")
			if err != nil {
				return err
			}
			var teamID *string
			if args[1] != "none" {
				tm, err := resolve(ws.TeamList(), args[1], "team")
				if err != nil {
					return err
				}
				teamID = &tm.ID
			}
			updated, err := client.AssignTeam(cmd.Context(), p.ID, teamID)
			if err != nil {
				return err
			}
			if _, err := ws.Projects.Refresh(cmd.Context(), ""); err != nil {
				c.logger.Warn("refreshing projects", "error", err)
			}
			return c.emit(updated, func() {
				if teamID == nil {
					c.printer.Success(updated.Name + " is no longer shared")
					return
				}
				c.printer.Success(updated.Name + " is shared with team " + *teamID)
			})
		},
	}
}

func (c *cli) projectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT",
		Short: "Delete a project and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolve(ws.ProjectList(), args[0], "project")
			if err != nil {
				return err
			}
			if !ws.DeleteProject(cmd.Context(), p.ID) {
				return rejected("delete project", ws.Projects.LastError())
			}
			c.printer.Success("deleted project " + p.Name)
			return nil
		},
	}
}
