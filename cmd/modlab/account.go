package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/subscription"
)

func (c *cli) signupCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			id, err := client.SignUp(cmd.Context(), api.SignUpRequest{Email: email, Password: password, DisplayName: name})
			if err != nil {
				return err
			}
			return c.emit(id, func() {
				c.printer.Success(fmt.Sprintf("account created for %s; run modlab login next", id.Email))
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (8 characters or more)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token",
		Long: `Sign in with email and password. The printed token goes into
MODLAB_STORE_TOKEN (or store.token in the config file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			tok, err := client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.emit(tok, func() {
				c.printer.Success("signed in as " + tok.Identity.Email)
				c.printer.Block("export MODLAB_STORE_TOKEN=" + tok.AccessToken)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the configured token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			if client.Token() == "" {
				return errors.New("no token configured")
			}
			if err := client.SignOut(cmd.Context()); err != nil {
				return err
			}
			c.printer.Success("token revoked")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			id, err := client.Whoami(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(id, func() {
				name := id.DisplayName
				if name == "" {
					name = id.Email
				}
				c.printer.Title(name)
				c.printer.Info("email: " + id.Email)
				c.printer.Info("provider: " + string(id.Provider))
				c.printer.Info("id: " + id.ID)
			})
		},
	}
}

func (c *cli) tiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List subscription tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			tiers, err := client.ListTiers(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(tiers, func() {
				for _, t := range tiers {
					c.printer.Block(tierLine(t))
				}
			})
		},
	}
}

func (c *cli) subscriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscription",
		Short: "Show the current subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			cur, err := client.CurrentSubscription(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cur, func() {
				c.printer.Title(cur.Tier.Name)
				c.printer.Block(tierLine(cur.Tier))
			})
		},
	}
}

func (c *cli) upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade TIER",
		Short: "Switch the subscription to another tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.requireClient()
			if err != nil {
				return err
			}
			cur, err := client.ChangeTier(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.emit(cur, func() {
				c.printer.Success("now on " + cur.Tier.Name)
			})
		},
	}
}

func tierLine(t subscription.Tier) string {
	return fmt.Sprintf("%-14s %-14s projects: %s  experiments/project: %s  %s",
		t.ID, price(t.PriceCents), limit(t.MaxProjects), limit(t.MaxExperiments), strings.Join(t.Features, ","))
}

func limit(n int) string {
	if n == subscription.Unlimited {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func price(cents int) string {
	if cents == 0 {
		return "free"
	}
	return fmt.Sprintf("$%d.%02d/mo", cents/100, cents%100)
}
