package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/matthallesq/modlab/internal/statesync"
)

func (c *cli) teamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team", "t"},
		Short:   "Manage teams and members",
	}
	cmd.AddCommand(
		c.teamsListCmd(),
		c.teamsCreateCmd(),
		c.teamsRenameCmd(),
		c.teamsDeleteCmd(),
		c.teamsAddMemberCmd(),
		c.teamsSetRoleCmd(),
		c.teamsRemoveMemberCmd(),
	)
	return cmd
}

func (c *cli) teamsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams with their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			teams := ws.TeamList()
			return c.emit(teams, func() {
				if len(teams) == 0 {
					c.printer.Info("no teams")
					return
				}
				for _, t := range teams {
					c.printer.Title(t.Name + "  " + t.ID)
					for _, m := range t.Members {
						c.printer.Info(fmt.Sprintf("%-7s %s <%s>  %s", m.Role, m.Name, m.Email, m.ID))
					}
				}
			})
		},
	}
}

func (c *cli) teamsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team owned by you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			t := team.Team{ID: statesync.NewID(), Name: args[0], Members: []team.Member{}}
			if !ws.SaveTeam(cmd.Context(), t) {
				return rejected("create team", ws.Teams.LastError())
			}
			saved, _ := ws.Teams.Get("", t.ID)
			return c.emit(saved, func() { c.printer.Success("created team " + saved.Name + " (" + saved.ID + ")") })
		},
	}
}

func (c *cli) teamsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename TEAM NAME",
		Short: "Rename a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			t, err := resolve(ws.TeamList(), args[0], "team")
			if err != nil {
				return err
			}
			t.Name = args[1]
			if !ws.SaveTeam(cmd.Context(), t) {
				return rejected("rename team", ws.Teams.LastError())
			}
			c.printer.Success("renamed team to " + t.Name)
			return nil
		},
	}
}

func (c *cli) teamsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TEAM",
		Short: "Delete a team and its memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			t, err := resolve(ws.TeamList(), args[0], "team")
			if err != nil {
				return err
			}
			if !ws.Teams.Delete(cmd.Context(), "", t.ID) {
				return rejected("delete team", ws.Teams.LastError())
			}
			c.printer.Success("deleted team " + t.Name)
			return nil
		},
	}
}

func (c *cli) teamsAddMemberCmd() *cobra.Command {
	var role, avatar string
	cmd := &cobra.Command{
		Use:   "add-member TEAM NAME EMAIL",
		Short: "Add a member to a team",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			ws, err := c.tenant(cmd.Context())
			if err != nil {
				return err
			}
			t, err := resolve(ws.TeamList(), args[0], "team")
			if err != nil {
				return err
			}
			m, err := client.AddMember(cmd.Context(), api.AddMemberRequest{
				TeamID:      t.ID,
				MemberInput: api.MemberInput{Name: args[1], Email: args[2], AvatarURL: avatar},
				Role:        role,
			})
			if err != nil {
				return err
			}
			c.refreshTeams(cmd)
			return c.emit(m, func() { c.printer.Success(fmt.Sprintf("added %s to %s as %s", m.Name, t.Name, m.Role)) })
		},
	}
	cmd.Flags().StringVar(&role, "role", string(team.RoleMember), "admin, member or viewer")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	return cmd
}

func (c *cli) teamsSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role TEAM MEMBER ROLE",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := team.Role(strings.ToLower(args[2]))
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", args[2])
			}
			client, m, err := c.member(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			updated, err := client.UpdateMemberRole(cmd.Context(), m.ID, role)
			if err != nil {
				return err
			}
			c.refreshTeams(cmd)
			return c.emit(updated, func() { c.printer.Success(updated.Name + " is now " + string(updated.Role)) })
		},
	}
}

func (c *cli) teamsRemoveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member TEAM MEMBER",
		Short: "Remove a member from a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, m, err := c.member(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := client.RemoveMember(cmd.Context(), m.ID); err != nil {
				return err
			}
			c.refreshTeams(cmd)
			c.printer.Success("removed " + m.Name)
			return nil
		},
	}
}

type memberRef struct {
	team.Member
}

func (m memberRef) Key() string { return m.ID }

// member resolves a member by id suffix or exact email within a team.
func (c *cli) member(cmd *cobra.Command, teamRef, ref string) (*remote.Client, team.Member, error) {
	client, err := c.requireClient()
	if err != nil {
		return nil, team.Member{}, err
	}
	ws, err := c.tenant(cmd.Context())
	if err != nil {
		return nil, team.Member{}, err
	}
	t, err := resolve(ws.TeamList(), teamRef, "team")
	if err != nil {
		return nil, team.Member{}, err
	}
	members := make([]memberRef, 0, len(t.Members))
	for _, m := range t.Members {
		if strings.EqualFold(m.Email, ref) {
			return client, m, nil
		}
		members = append(members, memberRef{m})
	}
	found, err := resolve(members, ref, "member")
	return client, found.Member, err
}

func (c *cli) refreshTeams(cmd *cobra.Command) {
	if c.ws == nil {
		return
	}
	if _, err := c.ws.Teams.Refresh(cmd.Context(), ""); err != nil {
		c.logger.Warn("refreshing teams", "error", err)
	}
}
