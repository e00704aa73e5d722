package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/configvault/cmd/app/commands"
	"github.com/allisson/configvault/internal/app"
	"github.com/allisson/configvault/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "backup",
			Usage: "Write readable entries to a versioned JSON backup file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "path",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Backup file path",
				},
				&cli.BoolFlag{
					Name:    "include-encryption",
					Aliases: []string{"e"},
					Value:   false,
					Usage:   "Include sensitive entries as encrypted payloads",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunBackup(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("path"),
					cmd.Bool("include-encryption"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "restore",
			Usage: "Load entries from a backup file (existing keys are skipped)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "path",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Backup file path",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunRestore(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("path"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "verify-integrity",
			Usage: "Validate the integrity tag of every encrypted entry",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunVerifyIntegrity(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "audit-report",
			Usage: "Generate a compliance report over a time window",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "start-date",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:     "end-date",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Output format: 'json', 'csv' or 'html'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				audit, err := container.AuditLogger(ctx)
				if err != nil {
					return err
				}

				return commands.RunAuditReport(
					audit,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("start-date"),
					cmd.String("end-date"),
					cmd.String("format"),
				)
			},
		},
	}
}
