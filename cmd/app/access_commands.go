package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/configvault/cmd/app/commands"
	"github.com/allisson/configvault/internal/app"
	"github.com/allisson/configvault/internal/config"
)

func getAccessCommands() []*cli.Command {
	roleFlag := func() *cli.StringFlag {
		return &cli.StringFlag{
			Name:     "role",
			Aliases:  []string{"r"},
			Required: true,
			Usage:    "Role name (guest, user, poweruser, administrator, system)",
		}
	}

	return []*cli.Command{
		{
			Name:  "grant-role",
			Usage: "Grant a role to a user and print the updated ROLE_ASSIGNMENTS",
			Flags: []cli.Flag{
				userFlag(),
				roleFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.AccessResolver()
				if err != nil {
					return err
				}
				audit, err := container.AuditLogger(ctx)
				if err != nil {
					return err
				}

				return commands.RunGrantRole(
					ctx,
					resolver,
					audit,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user"),
					cmd.String("role"),
				)
			},
		},
		{
			Name:  "revoke-role",
			Usage: "Revoke a role from a user and print the updated ROLE_ASSIGNMENTS",
			Flags: []cli.Flag{
				userFlag(),
				roleFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.AccessResolver()
				if err != nil {
					return err
				}

				audit, err := container.AuditLogger(ctx)
				if err != nil {
					return err
				}

				return commands.RunRevokeRole(
					ctx,
					resolver,
					audit,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user"),
					cmd.String("role"),
				)
			},
		},
		{
			Name:  "user-roles",
			Usage: "Print the roles assigned to a user",
			Flags: []cli.Flag{
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.AccessResolver()
				if err != nil {
					return err
				}

				return commands.RunUserRoles(
					resolver,
					commands.DefaultIO().Writer,
					cmd.String("user"),
				)
			},
		},
	}
}
